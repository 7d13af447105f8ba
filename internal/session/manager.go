package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/sportmed/trainingmonitor/internal/account"
	"github.com/sportmed/trainingmonitor/internal/rest"
)

var ErrNoSession = errors.New("no persisted session")

// Manager owns the session lifecycle: login against the account service,
// restore from the credential store at startup, logout. It is the only
// writer of the client's token.
type Manager struct {
	client   *rest.Client
	accounts *account.Service
	store    Store

	current *Session
}

func NewManager(client *rest.Client, accounts *account.Service, store Store) *Manager {
	return &Manager{
		client:   client,
		accounts: accounts,
		store:    store,
	}
}

func (m *Manager) Current() *Session {
	return m.current
}

// Login authenticates, sets the client token and persists the credentials.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	login, err := m.accounts.Auth(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	role, err := roleFromLogin(login)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Username: username,
		Token:    login.Token,
		Role:     role,
	}

	m.client.SetToken(login.Token)
	m.current = session

	if err := m.persist(session); err != nil {
		// the live session works either way; startup restore will just
		// require a fresh login
		log.Errorf("failed to persist session for %s: %s", username, err)
	}

	log.Debugf("logged in: %s", session)
	return session, nil
}

// Restore rebuilds a session from the credential store and verifies its
// token against the server. Any failure during verification clears the
// session entirely, from memory and from the store: a forced logout, never
// a retry.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	username, err := m.store.Read(KeyUsername)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read username: %w", err)
	}

	token, err := m.store.Read(KeyToken)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read token: %w", err)
	}

	role, err := m.readRole()
	if err != nil {
		return nil, err
	}

	session := &Session{
		Username: username,
		Token:    token,
		Role:     role,
	}

	m.client.SetToken(token)
	m.current = session

	if err := m.accounts.VerifyToken(ctx); err != nil {
		log.Debugf("persisted token for %s rejected, clearing session: %s", username, err)
		m.Logout()
		return nil, fmt.Errorf("verify token: %w", err)
	}

	log.Debugf("session restored: %s", session)
	return session, nil
}

// Logout discards the token from memory and from the persisted store.
func (m *Manager) Logout() {
	m.client.ClearToken()
	m.current = nil

	for _, key := range []string{KeyUsername, KeyToken, KeyPatientID, KeyTrainerID} {
		if err := m.store.Delete(key); err != nil {
			log.Errorf("failed to delete %s from credential store: %s", key, err)
		}
	}
}

func (m *Manager) persist(session *Session) error {
	if err := m.store.Write(KeyUsername, session.Username); err != nil {
		return err
	}
	if err := m.store.Write(KeyToken, session.Token); err != nil {
		return err
	}
	if err := m.store.Write(session.Role.storeKey(), strconv.Itoa(session.Role.ID)); err != nil {
		return err
	}
	// the two role keys are mutually exclusive
	return m.store.Delete(session.Role.otherStoreKey())
}

func (m *Manager) readRole() (Role, error) {
	if value, err := m.store.Read(KeyPatientID); err == nil {
		id, err := strconv.Atoi(value)
		if err != nil {
			return Role{}, fmt.Errorf("parse stored patient id: %w", err)
		}
		return Role{Kind: RolePatient, ID: id}, nil
	}

	value, err := m.store.Read(KeyTrainerID)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return Role{}, ErrNoSession
		}
		return Role{}, fmt.Errorf("read trainer id: %w", err)
	}
	id, err := strconv.Atoi(value)
	if err != nil {
		return Role{}, fmt.Errorf("parse stored trainer id: %w", err)
	}
	return Role{Kind: RoleTrainer, ID: id}, nil
}
