// Package auth provides the server side of the merchant admin sign-in
// surface: form validation, the login/register/forgot-password actions,
// verification token bookkeeping and the fiber controller that renders the
// auth pages.
//
// Actions:
//   - Actions wraps one command handler per form. Each handler logs its
//     input, validates it and answers with an ActionResult. ValidationLenient
//     keeps the historical behavior where field errors never reach the
//     caller; ValidationStrict reports them as "Invalid fields!".
//   - Register can hand the email to a VerificationIssuer, which records a
//     token and dispatches the confirmation email. Provider errors are
//     returned to the caller untouched by retries.
//
// Verification tokens:
//   - Tokens are rows in verification_tokens keyed by a random UUID. Issuing
//     a new token for an address supersedes the pending ones, and a token is
//     consumed at most once within its TTL.
//
// Activity sinks:
//   - ActivitySink receives best-effort audit events for every action and
//     verification step. Sink errors are logged and never fail a request.
package auth
