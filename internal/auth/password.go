package auth

import (
	"github.com/alexedwards/argon2id"
)

// Parâmetros usados nas contas administrativas; ficam codificados dentro
// do próprio hash, então podem mudar sem invalidar senhas antigas.
var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MB
	Iterations:  3,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Hash gera um hash Argon2id da senha.
func Hash(password string) (string, error) {
	return argon2id.CreateHash(password, params)
}

// Verify compara a senha com o hash, lendo os parâmetros do próprio hash.
func Verify(password, encodedHash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, encodedHash)
}
