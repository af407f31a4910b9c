package models

// UserIdentity describes the principal that issued the request captured by an
// event. Any of its fields may be absent or null.
type UserIdentity struct {
	Record
}

func (u *UserIdentity) Type() *string             { return u.stringField("type") }
func (u *UserIdentity) PrincipalID() *string      { return u.stringField("principalId") }
func (u *UserIdentity) ARN() *string              { return u.stringField("arn") }
func (u *UserIdentity) AccountID() *string        { return u.stringField("accountId") }
func (u *UserIdentity) AccessKeyID() *string      { return u.stringField("accessKeyId") }
func (u *UserIdentity) UserName() *string         { return u.stringField("userName") }
func (u *UserIdentity) InvokedBy() *string        { return u.stringField("invokedBy") }
func (u *UserIdentity) IdentityProvider() *string { return u.stringField("identityProvider") }

// SessionContext returns the session context, nil when absent or null.
func (u *UserIdentity) SessionContext() *SessionContext {
	v, ok := u.Get("sessionContext")
	if !ok || v == nil {
		return nil
	}
	sc, _ := v.(*SessionContext)
	return sc
}

// SessionContext captures the temporary-credential session attached to a
// UserIdentity.
type SessionContext struct {
	Record
}

// Attributes returns the flat session attributes, nil when absent or null.
func (s *SessionContext) Attributes() map[string]string {
	v, ok := s.Get("attributes")
	if !ok || v == nil {
		return nil
	}
	m, _ := v.(map[string]string)
	return m
}

// SessionIssuer returns the issuer of the temporary credentials, nil when
// absent or null.
func (s *SessionContext) SessionIssuer() *SessionIssuer {
	v, ok := s.Get("sessionIssuer")
	if !ok || v == nil {
		return nil
	}
	issuer, _ := v.(*SessionIssuer)
	return issuer
}

// WebIdFederationData returns the federated-identity session data, nil when
// absent or null.
func (s *SessionContext) WebIdFederationData() *WebIdentitySessionContext {
	v, ok := s.Get("webIdFederationData")
	if !ok || v == nil {
		return nil
	}
	w, _ := v.(*WebIdentitySessionContext)
	return w
}

// SessionIssuer identifies the entity that issued the session credentials.
// Present only under a SessionContext.
type SessionIssuer struct {
	Record
}

func (s *SessionIssuer) Type() *string        { return s.stringField("type") }
func (s *SessionIssuer) PrincipalID() *string { return s.stringField("principalId") }
func (s *SessionIssuer) ARN() *string         { return s.stringField("arn") }
func (s *SessionIssuer) AccountID() *string   { return s.stringField("accountId") }
func (s *SessionIssuer) UserName() *string    { return s.stringField("userName") }

// WebIdentitySessionContext captures a web-identity-federated session.
type WebIdentitySessionContext struct {
	Record
}

func (w *WebIdentitySessionContext) FederatedProvider() *string {
	return w.stringField("federatedProvider")
}

// Attributes returns the flat session attributes, nil when absent or null.
func (w *WebIdentitySessionContext) Attributes() map[string]string {
	v, ok := w.Get("attributes")
	if !ok || v == nil {
		return nil
	}
	m, _ := v.(map[string]string)
	return m
}

// Resource references an entity touched by an event. It carries no fixed
// schema; every field is kept as opaque text.
type Resource struct {
	Record
}
