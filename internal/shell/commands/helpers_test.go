package commands

import (
	"context"
	"fmt"
	"strings"

	"vcmd/internal/session"
)

// mockClient implements SessionClient for testing.
type mockClient struct {
	cred      *session.Credential
	authErr   error
	reauthErr error
	credErr   error

	authUser     string
	authPassword string
	authVerbose  bool
	reauthCalls  int
	deauthCalls  int
}

func (m *mockClient) Authenticate(_ context.Context, username, password string, verbose bool) (session.Credential, error) {
	m.authUser, m.authPassword, m.authVerbose = username, password, verbose
	if m.authErr != nil {
		return session.Credential{}, m.authErr
	}
	m.cred = &session.Credential{Token: "key-" + username}
	return *m.cred, nil
}

func (m *mockClient) Reauthenticate(context.Context, bool) (session.Credential, error) {
	m.reauthCalls++
	if m.reauthErr != nil {
		return session.Credential{}, m.reauthErr
	}
	if m.cred == nil {
		return session.Credential{}, session.ErrNoSession
	}
	return *m.cred, nil
}

func (m *mockClient) Deauthenticate(context.Context, bool) {
	m.deauthCalls++
	m.cred = nil
}

func (m *mockClient) Credential() (session.Credential, error) {
	if m.credErr != nil {
		return session.Credential{}, m.credErr
	}
	if m.cred == nil {
		return session.Credential{}, session.ErrNoSession
	}
	return *m.cred, nil
}

func (m *mockClient) Authenticated() bool { return m.cred != nil }

func (m *mockClient) Endpoint() string { return "http://velocity:8090" }

// mockOutput implements OutputLogger and records every line.
type mockOutput struct {
	verbose bool
	output  strings.Builder
	errors  []string
}

func (m *mockOutput) Output(format string, args ...interface{}) {
	fmt.Fprintf(&m.output, format, args...)
}

func (m *mockOutput) OutputLine(format string, args ...interface{}) {
	m.Output(format+"\n", args...)
}

func (m *mockOutput) Info(string, ...interface{})    {}
func (m *mockOutput) Debug(string, ...interface{})   {}
func (m *mockOutput) Success(string, ...interface{}) {}

func (m *mockOutput) Error(format string, args ...interface{}) {
	m.errors = append(m.errors, fmt.Sprintf(format, args...))
}

func (m *mockOutput) SetVerbose(verbose bool) { m.verbose = verbose }
func (m *mockOutput) Verbose() bool           { return m.verbose }

// mockPasswords implements PasswordReader.
type mockPasswords struct {
	password string
	err      error
	prompt   string
}

func (m *mockPasswords) ReadPassword(prompt string) (string, error) {
	m.prompt = prompt
	return m.password, m.err
}
