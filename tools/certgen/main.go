// Package main writes a development CA and a server certificate signed by
// it into a directory (./certs by default). An existing CA in that
// directory is reused so browsers that already trust it keep working.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/atinyakov/FlashCards/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs for the server certificate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	ca, err := loadOrCreateCA(*dir, out)
	if err != nil {
		return err
	}
	caCert, caKey, err := certgen.ParseCA(ca)
	if err != nil {
		return err
	}

	server, err := certgen.GenerateServerCertificate(names, caCert, caKey)
	if err != nil {
		return err
	}
	if err := server.Write(*dir, "server"); err != nil {
		return err
	}

	fmt.Fprintf(out, "Server certificate for %s written to %s\n", strings.Join(names, ", "), *dir)
	fmt.Fprintf(out, "Start the server with TLS_CERT_FILE=%s TLS_KEY_FILE=%s\n",
		filepath.Join(*dir, "server.crt"), filepath.Join(*dir, "server.key"))
	return nil
}

func loadOrCreateCA(dir string, out io.Writer) (certgen.Pair, error) {
	ca, err := certgen.Load(filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key"))
	if err == nil {
		fmt.Fprintln(out, "Reusing existing CA")
		return ca, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return certgen.Pair{}, err
	}

	ca, err = certgen.GenerateCA("FlashCards Dev CA")
	if err != nil {
		return certgen.Pair{}, err
	}
	if err := ca.Write(dir, "ca"); err != nil {
		return certgen.Pair{}, err
	}
	fmt.Fprintln(out, "Created new CA")
	return ca, nil
}
