// Package shell implements the interactive vCMD console.
//
// The REPL reads lines with readline, keeps a history file and offers tab
// completion for commands and their arguments. Commands live in the commands
// subpackage and operate on a session client. Logger is the console sink used
// by both the shell and the session client.
package shell
