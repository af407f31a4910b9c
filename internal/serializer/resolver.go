package serializer

import "github.com/trailops/trail-ingest-app/internal/models"

// ResolveAccountID derives the record's effective account identifier from, in
// order of precedence: the top-level recipientAccountId, the user identity's
// accountId, and the session issuer's accountId. First match wins; when no
// source is present the field stays unset. The result is a pure function of
// the record's pre-resolution fields, so repeated resolution is harmless.
func ResolveAccountID(data *models.EventData) {
	if recipient := data.RecipientAccountID(); recipient != nil {
		data.Set("accountId", *recipient)
		return
	}

	identity := data.UserIdentity()
	if identity == nil {
		return
	}
	if account := identity.AccountID(); account != nil {
		data.Set("accountId", *account)
		return
	}

	sessionContext := identity.SessionContext()
	if sessionContext == nil {
		return
	}
	issuer := sessionContext.SessionIssuer()
	if issuer == nil {
		return
	}
	if account := issuer.AccountID(); account != nil {
		data.Set("accountId", *account)
	}
}
