// Package server provides the listeners the HTTP server accepts connections on.
package server

import (
	"crypto/tls"
	"fmt"
	"net"
)

// TLSListener accepts TLS connections for the API.
// It reads the certificate and private key from PEM files on disk.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

// NewTLSListener creates a new TLSListener instance.
// The files are not read until Listen is called.
//
// Parameters:
//   - certFileName: Path to the PEM encoded certificate chain
//   - privateKeyFileName: Path to the PEM encoded private key
//
// Returns a pointer to the newly created TLSListener instance.
func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen creates a TLS listener on addr.
// It loads the key pair on every call so a restart picks up renewed
// certificates. Connections below TLS 1.2 are refused.
//
// Parameters:
//   - protocol: The network to listen on (typically "tcp")
//   - addr: The address to listen on
//
// Returns the TLS listener, or an error if the key pair cannot be loaded or
// the address cannot be bound.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   []string{"http/1.1"},
	}

	ln, err := tls.Listen(protocol, addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// PlainListener accepts unencrypted connections.
// It is meant for local development or for running behind a TLS terminating proxy.
type PlainListener struct{}

// NewPlainListener creates a new PlainListener instance.
//
// Returns a pointer to the newly created PlainListener instance.
func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen creates a plain listener on addr.
//
// Parameters:
//   - protocol: The network to listen on (typically "tcp")
//   - addr: The address to listen on
//
// Returns the listener, or an error if the address cannot be bound.
func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	ln, err := net.Listen(protocol, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}
