// Package auth implements account authentication and account-security for
// the IdeaHub backend: password signin with progressive lockout, signup,
// short-lived verification codes for password recovery, and external
// identity (OAuth) linking with deduplication.
//
// The package holds no durable state of its own. Accounts and OAuth links
// live behind the CredentialStore and OAuthLinkStore interfaces; outbound
// mail goes through email.EmailSender; session tokens are minted by
// session.Codec. All collaborators are injected through constructors so the
// core stays framework-free and testable.
package auth
