// Package rest implements the HTTP execution core of the Zendra SDK: it
// builds requests, drives the retry loop, classifies responses into a
// closed error taxonomy, and exposes lifecycle hooks for observability.
//
// Retries
//   - Controlled via RetryConfig; defaults retry {429,500,502,503,504},
//     network errors, and timeouts, up to MaxRetries additional attempts.
//   - Authentication, validation, not-found, and conflict errors are never
//     retried; the server already gave a definitive answer.
//   - A 429 with a Retry-After header sleeps exactly the server-directed
//     number of seconds; backoff parameters are ignored for that delay.
//
// Backoff Strategy
//   - Exponential: delay = InitialDelay * BackoffMultiplier^attempt, capped
//     at MaxDelay.
//   - Jitter is additive only: up to Jitter*delay is added on top, so a
//     retry never fires earlier than the base backoff.
//
// Cancellation
//   - Each attempt runs under the configured per-attempt timeout; exceeding
//     it yields a timeout-kind error.
//   - Cancelling the caller's context yields a network-kind error marked
//     Aborted, distinguishable from a transport failure.
//
// Notes
//   - The request body is serialized once per logical call and re-sent
//     byte-identical on every attempt, as is the idempotency key header.
//   - Hook failures from OnRequest abort the call and surface unwrapped.
package rest
