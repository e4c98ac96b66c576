// Copyright (c) 2025 Needles
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for backend requests.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"

	"needles/cli/internal/backend"
	apperrors "needles/cli/internal/errors"
)

// Category groups failures by what the user can do about them.
type Category int

const (
	Unknown Category = iota
	Session
	Rejected
	Server
	Timeout
	DNS
	Refused
	TLS
)

// Classify inspects err and reports its category.
func Classify(err error) Category {
	if err == nil {
		return Unknown
	}
	switch apperrors.KindOf(err) {
	case apperrors.AuthRequired, apperrors.SessionExpired:
		return Session
	}
	if status := backend.StatusOf(err); status != 0 {
		switch {
		case status == http.StatusUnauthorized:
			return Session
		case status >= 500:
			return Server
		default:
			return Rejected
		}
	}
	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return Refused
	case isSSLError(err):
		return TLS
	}
	return Unknown
}

// FormatNetworkError shows a friendly explanation of err for the action that
// failed (e.g. "fetching orders") and returns err wrapped for the caller.
// host names the backend in DNS and connectivity hints.
func FormatNetworkError(err error, action, host string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(err, action, host)
	return fmt.Errorf("%s: %w", action, err)
}

func displayErrorMessage(err error, action, host string) {
	switch Classify(err) {
	case Session:
		pterm.Warning.Printf("Your session has ended while %s.\n", action)
		pterm.Info.Println("Run `needles login` to sign in again.")
	case Rejected:
		var apiErr *backend.APIError
		errors.As(err, &apiErr)
		showRejected(action, apiErr)
	case Server:
		showServerError(action)
	case Timeout:
		showTimeoutError(action)
	case DNS:
		showDNSError(action, host)
	case Refused:
		showConnectionRefusedError(action)
	case TLS:
		showSSLError(action)
	default:
		showGenericError(action, host, err.Error())
	}
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// showRejected prints the backend's own message for a 4xx response.
func showRejected(action string, apiErr *backend.APIError) {
	msg := apiErr.Message()
	if msg == "" {
		msg = http.StatusText(apiErr.Status)
	}
	pterm.Error.Printf("The server rejected the request while %s: %s\n", action, msg)
}

func showTimeoutError(action string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", action)
	pterm.Println()
	pterm.Println("The server took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • The backend is waking up from idle (first request can take ~30s)")
	pterm.Println("  • Network firewall is blocking the connection")
	pterm.Println()
	pterm.Println("Please try again in a few moments.")
	pterm.Println()
}

func showDNSError(action, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", action)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Please check:\n", host)
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • DNS settings are correct")
	pterm.Println("  • base_url in your needles config")
	pterm.Println()
}

func showConnectionRefusedError(action string) {
	pterm.Printf("🚫 Connection refused while %s\n", action)
	pterm.Println()
	pterm.Println("The server is not accepting connections. This could mean:")
	pterm.Println("  • The service is temporarily down")
	pterm.Println("  • Wrong server address or port")
	pterm.Println()
}

func showSSLError(action string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", action)
	pterm.Println()
	pterm.Println("Cannot establish a secure HTTPS connection. Try:")
	pterm.Println("  • Check your system date and time")
	pterm.Println("  • Verify network proxy settings")
	pterm.Println()
}

func showServerError(action string) {
	pterm.Printf("⚠️  Server error while %s\n", action)
	pterm.Println()
	pterm.Println("The boutique backend encountered an internal error.")
	pterm.Println("This is not a problem with your setup. Please try again in a few minutes.")
	pterm.Println()
}

func showGenericError(action, host, errDetails string) {
	pterm.Printf("❌ Cannot reach %s while %s\n", host, action)
	pterm.Println()
	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
