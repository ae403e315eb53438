package shop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aaravmahajanofficial/storefront-sync/internal/client/api"
	"github.com/aaravmahajanofficial/storefront-sync/internal/client/session"
	"github.com/aaravmahajanofficial/storefront-sync/internal/models"
)

func (m *Manager) Login(ctx context.Context, email, password string) error {

	client, err := m.requireOnline()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	resp, err := client.Login(ctx, &models.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return m.fail(err, "Login Failed", "Failed to login. Please try again.")
	}

	m.startSession(ctx, client, resp)

	return nil
}

func (m *Manager) Register(ctx context.Context, name, email, password string) error {

	client, err := m.requireOnline()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	resp, err := client.Register(ctx, &models.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return m.fail(err, "Registration Failed", "Failed to register. Please try again.")
	}

	m.startSession(ctx, client, resp)

	return nil
}

// Logout drops the session locally. Tokens are stateless, so the server is
// not involved.
func (m *Manager) Logout(_ context.Context) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.stateMu.Lock()
	m.sess = nil
	m.gen++
	m.lines = nil
	if m.client == nil {
		m.state = StateOffline
	} else {
		m.state = StateAnonymous
	}
	m.stateMu.Unlock()

	if err := m.sessions.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	m.logger.Info("Logged out")

	return nil
}

func (m *Manager) requireOnline() (*api.Client, error) {

	client := m.currentClient()
	if client == nil {
		m.notify(SeverityInfo, "Offline Mode", offlineMessage)
		return nil, &api.Error{Kind: api.KindUnreachable, Message: "Offline mode"}
	}

	return client, nil
}

// startSession persists the credential and syncs the new user's cart. Called
// with mu held.
func (m *Manager) startSession(ctx context.Context, client *api.Client, resp *models.AuthResponse) {

	user := resp.User
	sess := session.Session{Token: resp.Token, User: &user}

	if err := m.sessions.Set(sess); err != nil {
		m.logger.Warn("Failed to persist session, it will not survive a restart", slog.String("error", err.Error()))
	}

	m.stateMu.Lock()
	m.sess = &sess
	m.gen++
	m.lines = nil
	m.state = StateAuthenticated
	m.stateMu.Unlock()

	m.logger.Info("Logged in", slog.String("userId", user.ID.String()))

	if err := m.fetchCart(ctx, client); err != nil {
		_ = m.fail(err, "Error", fetchMessage)
	}
}
