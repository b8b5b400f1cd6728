// Package gatewaytest provides a testify mock of shared.Gateway for service
// and handler tests.
package gatewaytest

import (
	"context"
	"encoding/json"
	"io"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// Gateway is a mock backend. Response values given to Return are passed
// through JSON into the caller's out value, the same path real responses take.
//
//	gw.On("Get", mock.Anything, "/productos", mock.Anything).Return(productos, nil, nil)
type Gateway struct {
	mock.Mock
}

// New creates a mock gateway whose expectations are asserted at test cleanup
func New(t interface {
	mock.TestingT
	Cleanup(func())
}) *Gateway {
	gw := &Gateway{}
	gw.Test(t)
	t.Cleanup(func() { gw.AssertExpectations(t) })
	return gw
}

func (m *Gateway) Get(ctx context.Context, path string, query url.Values, out any) (*shared.Meta, error) {
	args := m.Called(ctx, path, query)
	if err := args.Error(2); err != nil {
		return nil, err
	}
	if err := fill(args.Get(0), out); err != nil {
		return nil, err
	}
	meta, _ := args.Get(1).(*shared.Meta)
	return meta, nil
}

func (m *Gateway) Post(ctx context.Context, path string, body, out any) error {
	args := m.Called(ctx, path, body)
	if err := args.Error(1); err != nil {
		return err
	}
	return fill(args.Get(0), out)
}

func (m *Gateway) Put(ctx context.Context, path string, body, out any) error {
	args := m.Called(ctx, path, body)
	if err := args.Error(1); err != nil {
		return err
	}
	return fill(args.Get(0), out)
}

func (m *Gateway) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

func (m *Gateway) Download(ctx context.Context, path string, query url.Values) (*shared.File, error) {
	args := m.Called(ctx, path, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.File), args.Error(1)
}

// Upload reads the file so expectations can match on its content via
// UploadedFile in the Run callback.
func (m *Gateway) Upload(ctx context.Context, path string, fields map[string]string, file shared.Upload, out any) error {
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return err
	}
	args := m.Called(ctx, path, fields, UploadedFile{Field: file.Field, Filename: file.Filename, Data: data})
	if err := args.Error(1); err != nil {
		return err
	}
	return fill(args.Get(0), out)
}

// UploadedFile is what the mock records for an Upload call
type UploadedFile struct {
	Field    string
	Filename string
	Data     []byte
}

func fill(value, out any) error {
	if value == nil || out == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

var _ shared.Gateway = (*Gateway)(nil)
