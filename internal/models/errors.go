package models

import "errors"

var (
	// ErrValidation — входные данные некорректны, ошибку может исправить пользователь.
	ErrValidation = errors.New("validation error")
	// ErrDuplicateAccount — пользователь с таким email уже существует.
	ErrDuplicateAccount = errors.New("email already exists")
	// ErrInvalidCredentials — неверный email или пароль. Оба случая неразличимы.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized — токен отсутствует, повреждён или истёк.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound — запись не найдена или принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrRemoteUnavailable — удалённое хранилище недоступно.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)
