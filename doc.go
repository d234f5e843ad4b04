// Package auth issues short lived bearer tokens to registered clients
// identified by their CPF.
//
// Authentication flow:
//   - AuthRequest carries the identifier ("taxId", or the "cpf" alias) and
//     validates it with ozzo-validation. Masked input ("529.982.247-25") is
//     accepted; anything that fails the check digits is a validation failure.
//   - Auther asks an IdentityProvider for the client. No client means
//     ErrUnauthorized, with the same message for every unknown identifier.
//   - TokenIssuer signs the identity through a TokenSigner and anchors the
//     expiry at issuance time plus the configured lifetime literal
//     ("30s", "45m", "1h", "7d"). Unparseable literals fall back to one hour.
//
// Errors:
//   - Every failure is classified by KindOf into unauthorized, validation
//     failed, or internal, and rendered by ToEnvelope / ErrorHandler as
//     {"error", "message", "details"}. Internal causes never reach the body.
//
// Storage:
//   - Clients live in a bun backed sqlite table created by the embedded
//     migrations (see Migrate). ClientProvider adapts the Clients repository
//     to IdentityProvider.
package auth
