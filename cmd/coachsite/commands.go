package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/coachsite/internal/booking"
	"github.com/muurk/coachsite/internal/config"
	"github.com/muurk/coachsite/internal/content"
	"github.com/muurk/coachsite/internal/discovery"
	"github.com/muurk/coachsite/internal/logging"
	"github.com/muurk/coachsite/internal/server"
	"github.com/muurk/coachsite/internal/ui"
	"github.com/muurk/coachsite/internal/urls"
)

// Command flags
var (
	bookService   string
	scanTimeout   time.Duration
	inquiriesFile string
)

func init() {
	config.RegisterFlags(serveCmd.Flags())
	config.RegisterFlags(bookCmd.Flags())
	bookCmd.Flags().StringVar(&bookService, urls.ServiceParam, "", "Preselect and lock a service")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", discovery.DefaultScanTimeout, "How long to listen for announcements")
	inquiriesCmd.Flags().StringVar(&inquiriesFile, "file", "", "Inquiry file (defaults to the configured inquiry-file)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(inquiriesCmd)
}

// loadSettings resolves settings for cmd and initializes logging from them.
func loadSettings(cmd *cobra.Command) (*config.Settings, *content.Site, error) {
	settings, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if err := logging.Initialize(settings.LogLevel, settings.LogFile); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	site, err := content.Load(settings.ContentPath)
	if err != nil {
		return nil, nil, err
	}
	return settings, site, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the website",
	Long: `Serve the website and booking form over HTTP, or HTTPS when both
--cert and --key are given.

Each visit to /book opens a booking session. Accepted inquiries are dropped
by default; use --inquiry-sink=log or --inquiry-sink=file to keep them.`,
	Example: `  # Serve on the default port
  coachsite serve

  # Serve with custom content and keep inquiries in a file
  coachsite serve --content ./site.yaml --inquiry-sink file --inquiry-file ./inquiries.yaml

  # Serve over HTTPS and announce on the LAN
  coachsite serve --port 8443 --cert cert.pem --key key.pem --announce`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, site, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	srv, err := server.New(settings, site)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", site.Brand, settings.Addr())
	return srv.Start()
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Fill in the booking form in the terminal",
	Long: `Open the booking form in the terminal. Fields are checked as you type,
and submitting shows the same spinner and checkmark as the website before
the form returns empty.`,
	Example: `  coachsite book
  coachsite book --service "Corporate Team Building"`,
	RunE: runBook,
}

func runBook(cmd *cobra.Command, args []string) error {
	settings, site, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer logging.Sync()

	rules, err := booking.NewRuleSet(site.ServiceTitles())
	if err != nil {
		return err
	}
	sink, err := booking.NewSink(settings.InquirySink, settings.InquiryFile)
	if err != nil {
		return err
	}
	reg := booking.NewRegistry(booking.RegistryOptions{
		Rules:        rules,
		Sink:         sink,
		SubmitDelay:  settings.SubmitDelay,
		SuccessDelay: settings.SuccessDelay,
		TTL:          settings.SessionTTL,
	})
	defer reg.CloseAll()

	return ui.RunForm(reg, bookService)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find coachsite instances on the local network",
	Long: `Listen for coachsite servers started with --announce and list their URLs.`,
	Example: `  coachsite scan
  coachsite scan --timeout 10s`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Scan", "coachsite scan", map[string]string{
		"Service": discovery.ServiceType,
		"Timeout": scanTimeout.String(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	instances, err := scanner.Scan(ctx)
	if err != nil {
		p.PrintError("Scan failed", err)
		return err
	}
	p.PrintInstances(instances)
	return nil
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the page routing table",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := ui.NewPrinter(cmd.OutOrStdout())
		p.PrintHeader("Routes", "coachsite routes", nil)
		p.PrintRoutes(urls.Routes)
		return nil
	},
}

var inquiriesCmd = &cobra.Command{
	Use:   "inquiries",
	Short: "List inquiries recorded by the file sink",
	Example: `  coachsite inquiries --file ./inquiries.yaml`,
	RunE: runInquiries,
}

func runInquiries(cmd *cobra.Command, args []string) error {
	path := inquiriesFile
	if path == "" {
		settings, err := config.Load(configPath, nil)
		if err != nil {
			return err
		}
		path = settings.InquiryFile
	}
	if path == "" {
		return fmt.Errorf("no inquiry file: pass --file or set inquiry-file")
	}

	inquiries, err := booking.ReadInquiries(path)
	if err != nil {
		return err
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.PrintHeader("Inquiries", "coachsite inquiries", map[string]string{
		"File":  path,
		"Count": fmt.Sprint(len(inquiries)),
	})
	p.PrintInquiries(inquiries)
	return nil
}
