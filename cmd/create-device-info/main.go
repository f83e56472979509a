// Helper application to create device.json for the mobile API server.
//
// A new device identity is written to /opt/sifis-home/ by default; the
// location can be changed with the SIFIS_HOME_PATH environment variable
// or with the -o option. The authorization key can also be exported as
// a QR code SVG image for the mobile application to scan.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sifis-home/wp6-mobile-application-api/internal/device"
	"github.com/sifis-home/wp6-mobile-application-api/internal/qr"
)

// qrCodeBorder is the quiet zone width in modules around the QR code.
const qrCodeBorder = 4

// directoryPermissions restricts the SIFIS-Home directory to the owner;
// it holds the device authorization key.
const directoryPermissions = 0700

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses the command line and provisions the device identity.
// Separated from main for testability.
func run(args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("create-device-info", flag.ContinueOnError)
	flags.SetOutput(stdout)
	outputPath := flags.String("o", "", "custom output `path` for device.json")
	force := flags.Bool("f", false, "force writing of a new device.json file")
	privateKey := flags.String("p", "", "custom `file` path for the private key")
	qrCodeFile := flags.String("q", "", "write authorization key to QR code as SVG `file`")
	flags.Usage = func() {
		fmt.Fprintln(stdout, "Usage: create-device-info [options] <product name>")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Creates 'device.json' for the mobile API server. The file is written")
		fmt.Fprintln(stdout, "to /opt/sifis-home/ by default, but the location can be changed with")
		fmt.Fprintln(stdout, "the SIFIS_HOME_PATH environment variable or with the -o option.")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("expected exactly one product name argument, got %d", flags.NArg())
	}
	productName := flags.Arg(0)

	home := device.NewHome()
	if *outputPath != "" {
		home = device.NewHomeWithPath(*outputPath)
	}

	// An existing identity is kept unless overwriting is forced: losing
	// the authorization key locks out every paired mobile application.
	if _, err := os.Stat(home.InfoFile()); err == nil && !*force {
		fmt.Fprintf(stdout, "The device information file already exists at: %s\n", home.InfoFile())
		fmt.Fprintln(stdout, "You can use the -f option to overwrite it with a new one.")
		return nil
	}

	if err := os.MkdirAll(home.Path(), directoryPermissions); err != nil {
		return fmt.Errorf("creating output path: %w", err)
	}

	info, err := home.NewInfo(productName)
	if err != nil {
		return fmt.Errorf("creating device information: %w", err)
	}
	if *privateKey != "" {
		info.PrivateKeyFile = *privateKey
	}

	if err := home.SaveInfo(info); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "A new device information file was written to: %s\n", home.InfoFile())

	if *qrCodeFile != "" {
		// The QR code carries the authorization key as an uppercase
		// hex string, the format the mobile application scans.
		svg, svgErr := qr.SVG(info.AuthorizationKey.Hex(true), qrCodeBorder)
		if svgErr != nil {
			return fmt.Errorf("creating QR code: %w", svgErr)
		}
		if writeErr := os.WriteFile(*qrCodeFile, []byte(svg), 0600); writeErr != nil {
			return fmt.Errorf("saving QR code: %w", writeErr)
		}
		fmt.Fprintf(stdout, "QR code saved as: %s\n", *qrCodeFile)
	}

	return nil
}
