// Package certificate inspects PKCS#12 signing certificates before they are
// sent to the backend, so a wrong password or an expired certificate is
// reported immediately.
package certificate

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"

	"github.com/facturaec/dashboard/internal/domain/organization"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"golang.org/x/crypto/pkcs12"
)

var (
	ErrWrongPassword = errors.New("incorrect certificate password")
	ErrExpired       = errors.New("certificate has expired")
	ErrNotYetValid   = errors.New("certificate is not yet valid")
	ErrNoCertificate = errors.New("file contains no certificate")
	ErrNoPrivateKey  = errors.New("file contains no private key")
	ErrInvalidFile   = errors.New("file is not a valid PKCS#12 certificate")
)

// Info describes the signing certificate inside a .p12 file
type Info struct {
	Subject      string
	CommonName   string
	Issuer       string
	SerialNumber string
	NotBefore    time.Time
	NotAfter     time.Time
}

// Certificado converts the inspection result to the backend's shape
func (i Info) Certificado() organization.Certificado {
	return organization.Certificado{
		Sujeto:      i.Subject,
		Emisor:      i.Issuer,
		ValidoDesde: shared.NewDate(i.NotBefore),
		ValidoHasta: shared.NewDate(i.NotAfter),
	}
}

// Inspect decodes a .p12 file, verifies the password and checks the signing
// certificate is valid at now. Files carrying the issuer chain are accepted;
// the end-entity certificate is the one reported.
func Inspect(data []byte, password string, now time.Time) (*Info, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		if errors.Is(err, pkcs12.ErrIncorrectPassword) {
			return nil, ErrWrongPassword
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	var (
		certs  []*x509.Certificate
		hasKey bool
	)
	for _, block := range blocks {
		switch block.Type {
		case "CERTIFICATE":
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
			}
			certs = append(certs, cert)
		case "PRIVATE KEY":
			hasKey = true
		}
	}
	if len(certs) == 0 {
		return nil, ErrNoCertificate
	}
	if !hasKey {
		return nil, ErrNoPrivateKey
	}

	cert := leaf(certs)
	info := &Info{
		Subject:      cert.Subject.String(),
		CommonName:   cert.Subject.CommonName,
		Issuer:       cert.Issuer.String(),
		SerialNumber: cert.Subject.SerialNumber,
		NotBefore:    cert.NotBefore,
		NotAfter:     cert.NotAfter,
	}

	if now.Before(cert.NotBefore) {
		return info, ErrNotYetValid
	}
	if !now.Before(cert.NotAfter) {
		return info, ErrExpired
	}
	return info, nil
}

// leaf picks the first certificate that is not a CA
func leaf(certs []*x509.Certificate) *x509.Certificate {
	for _, c := range certs {
		if !c.IsCA {
			return c
		}
	}
	return certs[0]
}
