// Package scripts runs the maintenance scripts behind the command endpoints.
//
// The device ships with a directory of shell scripts (factory_reset.sh,
// restart.sh, shutdown.sh) that perform the privileged system actions the
// HTTP API cannot do itself. This package locates and executes them,
// capturing their output for the log.
//
// Script names are restricted to plain file names; the directory is fixed
// at construction so a request can never select a script outside it.
package scripts
