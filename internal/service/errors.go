package service

import "errors"

// Domain error kinds. Handlers map each kind to a distinct HTTP status
// and user-facing message; none of them is ever swallowed or retried
// inside the service layer.
var (
	// ErrTurnoJaAberto: an open turno already exists for the empresa.
	// Not retryable — the existing turno must be closed first.
	ErrTurnoJaAberto = errors.New("já existe um turno de caixa aberto")

	// ErrTurnoNaoAberto: a mutating operation hit a missing or closed
	// turno. The caller must re-fetch the current turno state.
	ErrTurnoNaoAberto = errors.New("não há turno de caixa aberto")

	// ErrValorInvalido: non-positive movement amount or negative opening
	// balance. Surfaced directly to the user for correction.
	ErrValorInvalido = errors.New("valor inválido")

	// ErrTipoInvalido: unknown movement type.
	ErrTipoInvalido = errors.New("tipo de movimentação inválido")

	// ErrTransicaoInvalida: OS status change not allowed by the workflow.
	ErrTransicaoInvalida = errors.New("transição de status inválida")

	ErrRegistroNaoEncontrado = errors.New("registro não encontrado")
)
