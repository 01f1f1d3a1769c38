package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"course-scheduler/backend/internal/dto"
	"course-scheduler/backend/internal/model"
)

// 自定义校验 tag
const (
	weekdayTag        = "weekday"
	conflictActionTag = "conflict_action"
)

// Register 在 gin 的校验引擎上注册自定义 tag，并以 json 字段名报告错误
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	return register(v)
}

func register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(weekdayTag, validateWeekday); err != nil {
		return err
	}
	return v.RegisterValidation(conflictActionTag, validateConflictAction)
}

// weekday 全称、三字母缩写或 ISO 序号
func validateWeekday(fl validator.FieldLevel) bool {
	_, err := model.ParseDay(fl.Field().String())
	return err == nil
}

// conflict_action ACCEPT / OVERRIDE，大小写不敏感
func validateConflictAction(fl validator.FieldLevel) bool {
	switch strings.ToUpper(strings.TrimSpace(fl.Field().String())) {
	case dto.ConflictActionAccept, dto.ConflictActionOverride:
		return true
	}
	return false
}

// FieldErrors 把校验失败转成 字段 → 规则 的映射；非校验错误返回 nil
func FieldErrors(err error) map[string]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make(map[string]string, len(ves))
	for _, fe := range ves {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[fe.Field()] = rule
	}
	return out
}
