package session

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	gorillasessions "github.com/gorilla/sessions"
	"github.com/gorilla/securecookie"
)

// Store adapts a Manager to gin-contrib/sessions. The cookie carries the
// session token signed with the store keys; the values live in the backend.
type Store struct {
	manager *Manager
	Codecs  []securecookie.Codec
	options *sessions.Options
}

// NewStore creates a Store persisting sessions through manager.
func NewStore(manager *Manager, keyPairs ...[]byte) *Store {
	return &Store{
		manager: manager,
		Codecs:  securecookie.CodecsFromPairs(keyPairs...),
		options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(manager.TTL() / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// Options sets the cookie options for new sessions.
func (s *Store) Options(opts sessions.Options) {
	s.options = &opts
}

// Get returns the session cached for the request, loading it on first use.
func (s *Store) Get(r *http.Request, name string) (*gorillasessions.Session, error) {
	return gorillasessions.GetRegistry(r).Get(s, name)
}

// New builds the request session, restoring values from a valid token cookie.
func (s *Store) New(r *http.Request, name string) (*gorillasessions.Session, error) {
	session := gorillasessions.NewSession(s, name)
	session.Options = &gorillasessions.Options{
		Path:     s.options.Path,
		Domain:   s.options.Domain,
		MaxAge:   s.options.MaxAge,
		Secure:   s.options.Secure,
		HttpOnly: s.options.HttpOnly,
		SameSite: s.options.SameSite,
	}
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var token string
	if err := securecookie.DecodeMulti(name, c.Value, &token, s.Codecs...); err != nil {
		return session, nil
	}
	rec, ok := s.manager.Lookup(r.Context(), token)
	if !ok {
		return session, nil
	}
	if len(rec.Data) > 0 {
		if err := decodeValues(rec.Data, &session.Values); err != nil {
			return session, nil
		}
	}
	session.Values[loginUserKey] = rec.UserID
	session.ID = rec.Token
	session.IsNew = false
	return session, nil
}

// Save persists the session. Sessions without a logged in user are not
// stored; a negative MaxAge destroys the session.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *gorillasessions.Session) error {
	ctx := r.Context()

	if session.Options.MaxAge < 0 {
		if err := s.manager.Destroy(ctx, session.ID); err != nil {
			return err
		}
		session.ID = ""
		http.SetCookie(w, s.newCookie(session, "", time.Time{}))
		return nil
	}

	userID, ok := session.Values[loginUserKey].(int)
	if !ok {
		return nil
	}

	_, rotate := session.Values[rotateKey]
	delete(session.Values, rotateKey)

	rec, valid := s.manager.Lookup(ctx, session.ID)
	if rotate || !valid || rec.UserID != userID {
		if valid {
			if err := s.manager.Destroy(ctx, session.ID); err != nil {
				return err
			}
		}
		token, err := s.manager.Create(ctx, userID)
		if err != nil {
			return err
		}
		session.ID = token
	}

	data, err := encodeValues(session.Values)
	if err != nil {
		return err
	}
	if err := s.manager.Update(ctx, session.ID, data); err != nil {
		return err
	}
	rec, valid = s.manager.Lookup(ctx, session.ID)
	if !valid {
		return ErrNotFound
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.newCookie(session, encoded, rec.ExpiresAt))
	return nil
}

func (s *Store) newCookie(session *gorillasessions.Session, value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     session.Name(),
		Value:    value,
		Path:     session.Options.Path,
		Domain:   session.Options.Domain,
		Secure:   session.Options.Secure,
		HttpOnly: session.Options.HttpOnly,
		SameSite: session.Options.SameSite,
	}
	if value == "" {
		cookie.MaxAge = -1
		return cookie
	}
	cookie.Expires = expires
	if remaining := time.Until(expires); remaining > 0 {
		cookie.MaxAge = int(remaining / time.Second)
	}
	return cookie
}

func encodeValues(values map[any]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(values); err != nil {
		return nil, fmt.Errorf("failed to encode session values: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeValues(data []byte, values *map[any]any) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(values); err != nil {
		return fmt.Errorf("failed to decode session data: %w", err)
	}
	return nil
}
