package auth

// ClientIdentity adapts a Client into the Identity interface for token generation.
type ClientIdentity struct {
	client *Client
}

// NewIdentityFromClient returns an Identity adapter for the provided client.
func NewIdentityFromClient(client *Client) Identity {
	if client == nil {
		return nil
	}
	return ClientIdentity{client: client}
}

// ID returns the client's ID as a string.
func (c ClientIdentity) ID() string {
	if c.client == nil {
		return ""
	}
	return c.client.ID.String()
}

// Name returns the client's display name.
func (c ClientIdentity) Name() string {
	if c.client == nil {
		return ""
	}
	return c.client.Name
}

// TaxID returns the client's CPF.
func (c ClientIdentity) TaxID() string {
	if c.client == nil {
		return ""
	}
	return c.client.CPF
}

// Email returns the client's email address.
func (c ClientIdentity) Email() string {
	if c.client == nil {
		return ""
	}
	return c.client.Email
}
