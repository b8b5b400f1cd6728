package apiclient

import "context"

// Credentials identify the caller to the backend
type Credentials struct {
	Token  string
	Tenant string
}

type credentialsKey struct{}

// WithCredentials attaches the session token and tenant to ctx.
// Every call made with the returned context carries them as headers.
func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

// CredentialsFrom returns the credentials attached to ctx
func CredentialsFrom(ctx context.Context) (Credentials, bool) {
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	return creds, ok
}

// WithTenant attaches only a tenant, for calls made before login
func WithTenant(ctx context.Context, tenant string) context.Context {
	creds, _ := CredentialsFrom(ctx)
	creds.Tenant = tenant
	return WithCredentials(ctx, creds)
}
