package util

import (
	"errors"
	"strings"
)

// ErrValidation marca falhas de validação de entrada. Os handlers HTTP
// traduzem erros que respondem a este sentinel em 400.
var ErrValidation = errors.New("entrada inválida")

type validationError struct{ msg string }

func (e validationError) Error() string { return e.msg }

func (e validationError) Is(target error) bool { return target == ErrValidation }

// Validation cria um erro de validação com a mensagem informada.
func Validation(msg string) error {
	return validationError{msg: msg}
}

// RequireString garante string não vazia.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return Validation(field + " obrigatório")
	}
	return nil
}

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return Validation("senha deve ter pelo menos 8 caracteres")
	}
	return nil
}

// ValidateCPF confere formato e dígitos verificadores do CPF.
func ValidateCPF(cpf string) error {
	digits := make([]int, 0, 11)
	for _, r := range cpf {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		} else if r != '.' && r != '-' && r != ' ' {
			return Validation("CPF inválido")
		}
	}
	if len(digits) != 11 {
		return Validation("CPF deve ter 11 dígitos")
	}

	allEqual := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return Validation("CPF inválido")
	}

	for _, pos := range []int{9, 10} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += digits[i] * (pos + 1 - i)
		}
		check := (sum * 10) % 11
		if check == 10 {
			check = 0
		}
		if check != digits[pos] {
			return Validation("CPF inválido")
		}
	}

	return nil
}
