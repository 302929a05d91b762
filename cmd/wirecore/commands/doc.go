// Package commands defines the wirecore CLI and wires dependencies for subcommands.
//
// Commands
//
//   - login            Authenticate, generate keys and register this device
//   - logout           Revoke this device's login cookie and forget the session
//   - send             Post pre-encrypted payloads to a conversation
//   - prekeys upload   Generate and upload a batch of new prekeys
//   - prekeys fetch    Claim prekeys for other users' devices
//   - fingerprint      Print the identity fingerprint
//   - listen           Follow the notification stream, accepting connection requests
//
// # Implementation
//
// The root command loads the configuration (file, environment, then flags)
// and builds the dependency graph (stores, backend client, services) before
// any subcommand runs. Session state is saved after each command that
// changes it, so separate runs share one login.
package commands
