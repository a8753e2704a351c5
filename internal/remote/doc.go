// Package remote runs a single shell command on a host and hands back its
// standard output.
//
// A Channel is opened per logical operation and torn down when the returned
// reader is closed; nothing is pooled between calls. Three transports exist:
//
//   - LocalChannel runs the command through $SHELL -c on this machine.
//   - SSHChannel authenticates with the descriptor's credentials, the SSH
//     agent or key files, and runs the command as an exec request.
//   - TelnetChannel plays a fixed login script (username, password, command,
//     exit) with a delay before each line and collects everything the server
//     prints. Prompts are not checked; noise is left for the caller's parser.
//
// Dispatcher picks the transport from the descriptor's Kind.
package remote
