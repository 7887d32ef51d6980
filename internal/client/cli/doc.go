// Package cli is the interactive CineCollection command-line client.
//
// It wires the client configuration, the local session store, the REST API
// client and a listing controller into a small REPL. The session survives
// restarts; any 401 from the server ends it.
//
// Commands:
//
//	register, login, logout, whoami
//	list                first page of the catalog
//	more                next page (the terminal's "scroll")
//	search [term]       restart the listing filtered by term
//	show <id>
//	add, edit <id>, delete <id>
//	poster <id> <file>  upload a poster image and attach it to an entry
//	help, exit
package cli
