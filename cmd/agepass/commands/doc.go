// Package commands defines the agepass CLI.
//
// Commands
//
//   - issue     Issue a signed, zero-knowledge or JWT age credential
//   - verify    Verify a scanned QR payload or VC-JWT
//   - keygen    Generate an issuer key seed and print its public key
//   - qr        Render a payload as a PNG QR code
//
// # Implementation
//
// The root command resolves the issuer key and builds a credential service
// before any subcommand runs. Logs go to stderr so stdout carries only
// command output.
package commands
