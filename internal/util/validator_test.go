package util

import (
	"errors"
	"testing"
)

func TestValidationErrorsMatchSentinel(t *testing.T) {
	for _, err := range []error{
		RequireString("", "campo"),
		ValidatePassword("curta"),
		ValidateCPF("123"),
		Validation("mensagem livre"),
	} {
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("%v deveria responder a ErrValidation", err)
		}
	}

	if Validation("mensagem livre").Error() != "mensagem livre" {
		t.Fatal("mensagem deveria ser preservada sem prefixo")
	}
}

func TestValidateCPF(t *testing.T) {
	valid := []string{
		"52998224725",
		"529.982.247-25",
	}
	for _, cpf := range valid {
		if err := ValidateCPF(cpf); err != nil {
			t.Fatalf("ValidateCPF(%q) = %v, esperado nil", cpf, err)
		}
	}

	invalid := []string{
		"",
		"123",
		"5299822472",     // 10 dígitos
		"529982247250",   // 12 dígitos
		"11111111111",    // todos iguais
		"52998224726",    // dígito verificador errado
		"52998224a25",    // caractere estranho
		"529-982x247-25", // separador inválido
	}
	for _, cpf := range invalid {
		if err := ValidateCPF(cpf); err == nil {
			t.Fatalf("ValidateCPF(%q) deveria falhar", cpf)
		}
	}
}

func TestRequireString(t *testing.T) {
	if err := RequireString("valor", "campo"); err != nil {
		t.Fatalf("inesperado: %v", err)
	}
	if err := RequireString("   ", "campo"); err == nil {
		t.Fatal("espaços deveriam ser rejeitados")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345678"); err != nil {
		t.Fatalf("inesperado: %v", err)
	}
	if err := ValidatePassword("1234567"); err == nil {
		t.Fatal("senha curta deveria ser rejeitada")
	}
}
