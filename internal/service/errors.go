package service

import "errors"

var (
	// ErrValidation - ввод отклонен локально, в хранилище ничего не ушло
	ErrValidation = errors.New("validation failed")
	// ErrUnknownCategory - категории нет в последнем прочитанном справочнике
	ErrUnknownCategory = errors.New("unknown category")
)
