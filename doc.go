// Package auth authenticates named principals against stored bcrypt
// credentials and issues signed, time-bounded access tokens whose scope claim
// snapshots the principal's roles at login.
//
// Login flow:
//   - Auther orchestrates lookup, credential verification, scope derivation,
//     and token issuance. An unknown name and a wrong password are
//     indistinguishable to the caller, in both error value and timing.
//   - TokenService owns claim construction and HS256 signing; the lifetime it
//     reports to callers is the same constant written into the exp claim.
//
// Enforcement:
//   - Guard validates incoming tokens (signature, expiry) before examining
//     scope, and keeps the deny reasons distinct for observability. Ownership
//     checks (RequireSubject) are identity checks, separate from scope.
//   - middleware/jwtware wires the same checks into fiber routes as a bearer
//     middleware.
//
// Storage:
//   - Principals and Roles are Bun models; the Principals repository
//     translates unique-constraint violations on name into ErrDuplicateName
//     so racy registrations fail cleanly. Registration and admin bootstrap
//     are message handlers; the bootstrap path is idempotent.
package auth
