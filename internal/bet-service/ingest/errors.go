package ingest

import "errors"

// Kind classifica as falhas de placeBet no contrato externo.
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindMarketClosed Kind = "MarketClosedError"
	KindPersistence  Kind = "PersistenceError"
	KindTimeout      Kind = "TimeoutError"
)

// Error é o erro tipado devolvido pelo serviço de ingestão.
// ValidationError e MarketClosedError nunca devem ser retentados;
// TimeoutError é desfecho ambíguo: o chamador reconsulta antes de retentar.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// KindOf extrai o Kind de um erro de ingestão; "" se não for um.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}
