package testsCommon

import "context"

// TransportStub -
type TransportStub struct {
	AuthenticateHandler func(ctx context.Context) error
	PostHandler         func(ctx context.Context, query string) ([]byte, error)
}

// Authenticate -
func (stub *TransportStub) Authenticate(ctx context.Context) error {
	if stub.AuthenticateHandler != nil {
		return stub.AuthenticateHandler(ctx)
	}

	return nil
}

// Post -
func (stub *TransportStub) Post(ctx context.Context, query string) ([]byte, error) {
	if stub.PostHandler != nil {
		return stub.PostHandler(ctx, query)
	}

	return []byte(`{"data": {}}`), nil
}

// IsInterfaceNil -
func (stub *TransportStub) IsInterfaceNil() bool {
	return stub == nil
}
