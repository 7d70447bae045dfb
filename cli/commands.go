package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check    CheckCmd    `cmd:"" help:"Parse, check and process a ledger input file."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging ledger files."`
	Format   FormatCmd   `cmd:"" help:"Format a ledger file to align numbers and currencies."`
	Balances BalancesCmd `cmd:"" help:"Print every account's current balance."`
	Init     InitCmd     `cmd:"" help:"Scaffold a new, empty ledger file."`
}
