package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	screener "github.com/artificiallyhuman/linkedin-screener"
)

const banner = "================================================================================"

func main() {
	// Missing .env is fine; env vars and flags still apply.
	_ = godotenv.Load()

	var (
		apiKey      = flag.String("api-key", "", "OpenAI API key (defaults to OPENAI_API_KEY)")
		model       = flag.String("model", screener.DefaultModel, "OpenAI model to use")
		textFile    = flag.String("text-file", "", "Text file containing profile data (bypasses scraping)")
		email       = flag.String("email", "", "LinkedIn email for the authenticated path (defaults to LINKEDIN_EMAIL)")
		password    = flag.String("password", "", "LinkedIn password (defaults to LINKEDIN_PASSWORD)")
		showBrowser = flag.Bool("show-browser", false, "Show the browser window during scraping")
		noSession   = flag.Bool("no-session", false, "Do not reuse the saved browser session")
		static      = flag.Bool("static", false, "Fetch the page with plain HTTP instead of a browser")
		retries     = flag.Int("retries", screener.DefaultRetries, "Extra acquisition attempts after the first")
		proxyURL    = flag.String("proxy", "", "Proxy URL (http/https/socks5)")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	profileURL := flag.Arg(0)
	if profileURL == "" {
		usage()
		os.Exit(1)
	}
	if err := screener.ValidateProfileURL(profileURL); err != nil {
		fatal("Please provide a valid LinkedIn profile URL (e.g., https://www.linkedin.com/in/username)")
	}

	key := firstNonEmpty(*apiKey, os.Getenv("OPENAI_API_KEY"))
	if key == "" {
		fatal("OpenAI API key not found. Set OPENAI_API_KEY or use --api-key")
	}

	creds := resolveCredentials(*email, *password)

	fmt.Println(banner)
	fmt.Println("LINKEDIN PROFILE FAKE CANDIDATE DETECTOR")
	fmt.Println(banner)
	fmt.Printf("\nAnalyzing profile: %s\n\n", profileURL)

	doc, err := acquireProfile(profileURL, *textFile, *static, *showBrowser, *noSession, *retries, *proxyURL, creds)
	if err != nil {
		log.Error("profile acquisition failed", "error", err)
		printRemediationHints(profileURL)
		os.Exit(1)
	}
	fmt.Println("✓ Profile data collected")

	fmt.Printf("\nAnalyzing profile with %s...\n", *model)
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	sp.Start()
	analyzer := screener.NewAnalyzer(key).WithModel(*model)
	report, err := analyzer.Analyze(context.Background(), doc)
	sp.Stop()
	if err != nil {
		fatal(fmt.Sprintf("analysis failed: %v", err))
	}
	fmt.Println("✓ Analysis complete")

	fmt.Println()
	fmt.Println(banner)
	fmt.Println("ANALYSIS REPORT")
	fmt.Println(banner)
	fmt.Println()
	fmt.Println(report)
	fmt.Println()
	fmt.Println(banner)
}

// acquireProfile runs the configured acquisition path: manual file, static
// HTTP fetch, or the full browser pipeline.
func acquireProfile(profileURL, textFile string, static, showBrowser, noSession bool, retries int, proxyURL string, creds *screener.Credentials) (*screener.ProfileDocument, error) {
	if textFile != "" {
		fmt.Printf("Step 1: Loading profile data from file: %s...\n", textFile)
		return screener.LoadProfileFromFile(textFile, profileURL)
	}

	s := screener.New()
	defer s.Close()

	if proxyURL != "" {
		if err := s.SetProxy(proxyURL); err != nil {
			return nil, err
		}
	}

	if static {
		fmt.Println("Step 1: Fetching profile over plain HTTP...")
		return s.FetchStatic(context.Background(), profileURL)
	}

	fmt.Println("Step 1: Scraping LinkedIn profile...")
	if showBrowser {
		fmt.Println("   (Browser window will be visible)")
	}
	if creds != nil {
		fmt.Println("   (Using authenticated session)")
	}

	return s.Scan(context.Background(), screener.ScanRequest{
		URL:         profileURL,
		Headless:    !showBrowser,
		UseSession:  !noSession,
		Credentials: creds,
		Retries:     retries,
	})
}

// resolveCredentials enables the authenticated path only when both values
// are present, from flags or environment.
func resolveCredentials(email, password string) *screener.Credentials {
	e := firstNonEmpty(email, os.Getenv("LINKEDIN_EMAIL"))
	p := firstNonEmpty(password, os.Getenv("LINKEDIN_PASSWORD"))
	if e == "" || p == "" {
		return nil
	}
	return &screener.Credentials{Email: e, Password: p}
}

func printRemediationHints(profileURL string) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "LinkedIn may be blocking access or requiring authentication. Things to try:")
	fmt.Fprintln(os.Stderr, "  1. Run with --show-browser and resolve any verification step by hand")
	fmt.Fprintln(os.Stderr, "  2. Set LINKEDIN_EMAIL / LINKEDIN_PASSWORD to use the authenticated path")
	fmt.Fprintln(os.Stderr, "  3. Copy the profile text into a file and rerun with:")
	fmt.Fprintf(os.Stderr, "       linkedin-screener --text-file profile.txt %s\n", profileURL)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: linkedin-screener [flags] <linkedin-profile-url>")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  linkedin-screener https://www.linkedin.com/in/username")
	fmt.Fprintln(os.Stderr, "  linkedin-screener --text-file profile.txt https://www.linkedin.com/in/username")
	fmt.Fprintln(os.Stderr, "  linkedin-screener --show-browser https://www.linkedin.com/in/username")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "Error: "+msg)
	os.Exit(1)
}
