package services

import "errors"

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUnknownEmail  = errors.New("email does not exist")
	ErrWrongPassword = errors.New("password is incorrect")
)
