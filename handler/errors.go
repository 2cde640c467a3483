package handler

import (
	"Lumen/models"
	"Lumen/pkg/response"
	"Lumen/service"
	"errors"
	"net/http"
)

// bizError 把领域错误翻译成对调用方有意义的状态码，其余按 500 处理
func bizError(err error) error {
	switch {
	case errors.Is(err, models.ErrUnknownActionKind),
		errors.Is(err, models.ErrInvalidWindow),
		errors.Is(err, service.ErrInvalidInput):
		return response.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrLogNotFound):
		return response.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateEvent):
		return response.NewError(http.StatusConflict, err.Error())
	}
	return err
}
