// Package email defines the outbound email contract used by the
// authentication core and provides two implementations: a Postmark-backed
// sender for production and a development sender that writes messages to
// disk instead of dispatching them.
package email
