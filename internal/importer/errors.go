package importer

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is returned when the declared MIME type is neither CSV nor JSON.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrRead is returned when the file contents could not be obtained.
	ErrRead = errors.New("read file")

	// ErrFileTooLarge is returned when an operator-configured size limit is exceeded.
	// It wraps ErrRead.
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrRead)

	// ErrEmptyDataset is returned when parsing yields no rows or a non-array value.
	ErrEmptyDataset = errors.New("empty file or invalid format")

	// ErrSubmission is returned when the submitter rejects the dataset.
	ErrSubmission = errors.New("submission failed")

	// ErrSimulatedFailure is the failure produced by SimulatedSubmitter.
	ErrSimulatedFailure = fmt.Errorf("%w: simulated server error", ErrSubmission)

	// ErrBusy is returned when a session already has an import in flight.
	ErrBusy = errors.New("import already in progress")

	// ErrTooManyImports is returned when every import slot stays occupied for
	// the limiter's wait time.
	ErrTooManyImports = errors.New("too many concurrent imports, please try again later")
)

// ParseError carries the underlying decoder message for a malformed file.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UserMessage is the user-facing description of a failed import.
type UserMessage struct {
	Message string // shown in the feedback banner
	Action  string // what the user can do about it
	Code    string // support reference
}

type errorRule struct {
	target error
	msg    UserMessage
}

// errorRules is checked in order with errors.Is, so wrapped sentinels
// (ErrSimulatedFailure, ErrFileTooLarge) must come before what they wrap.
var errorRules = []errorRule{
	{
		target: ErrUnsupportedType,
		msg: UserMessage{
			Message: "Tipo de ficheiro não suportado. Use CSV ou JSON.",
			Action:  "Selecione um ficheiro .csv ou .json",
			Code:    "IMP001",
		},
	},
	{
		target: ErrFileTooLarge,
		msg: UserMessage{
			Message: "Erro ao carregar o ficheiro.",
			Action:  "O ficheiro excede o tamanho máximo permitido",
			Code:    "IMP002",
		},
	},
	{
		target: ErrRead,
		msg: UserMessage{
			Message: "Erro ao carregar o ficheiro.",
			Action:  "Selecione o ficheiro novamente",
			Code:    "IMP002",
		},
	},
	{
		target: ErrEmptyDataset,
		msg: UserMessage{
			Message: "O ficheiro está vazio ou o formato é inválido.",
			Action:  "Verifique que o ficheiro contém pelo menos um registo",
			Code:    "IMP004",
		},
	},
	{
		target: ErrSimulatedFailure,
		msg: UserMessage{
			Message: "Erro de processamento no servidor (Simulado).",
			Action:  "Tente importar o ficheiro novamente",
			Code:    "IMP005",
		},
	},
	{
		target: ErrSubmission,
		msg: UserMessage{
			Message: "Erro de processamento no servidor.",
			Action:  "Tente importar o ficheiro novamente",
			Code:    "IMP005",
		},
	},
	{
		target: ErrBusy,
		msg: UserMessage{
			Message: "Já existe uma importação em curso.",
			Action:  "Aguarde a conclusão da importação atual",
			Code:    "IMP006",
		},
	},
	{
		target: ErrTooManyImports,
		msg: UserMessage{
			Message: "O servidor está ocupado.",
			Action:  "Aguarde alguns momentos e tente novamente",
			Code:    "IMP007",
		},
	},
	{
		target: context.Canceled,
		msg: UserMessage{
			Message: "A importação foi cancelada.",
			Action:  "Selecione o ficheiro novamente",
			Code:    "IMP008",
		},
	},
	{
		target: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "A importação excedeu o tempo limite.",
			Action:  "Tente novamente com um ficheiro mais pequeno",
			Code:    "IMP008",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "Ocorreu um erro inesperado.",
	Action:  "Tente novamente ou contacte o suporte",
	Code:    "ERR000",
}

// MapError converts an import error to its user-facing message.
// A nil error maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var perr *ParseError
	if errors.As(err, &perr) {
		return UserMessage{
			Message: "Erro ao analisar o ficheiro: " + perr.Err.Error(),
			Action:  "Corrija o conteúdo do ficheiro e tente novamente",
			Code:    "IMP003",
		}
	}

	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.msg
		}
	}
	return defaultMessage
}
