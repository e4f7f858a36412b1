package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/supportpilot/supportpilot/pkg/agents"
	"github.com/supportpilot/supportpilot/pkg/config"
	"github.com/supportpilot/supportpilot/pkg/db"
	"github.com/supportpilot/supportpilot/pkg/identity"
	"github.com/supportpilot/supportpilot/pkg/kb"
	"github.com/supportpilot/supportpilot/pkg/llm"
	"github.com/supportpilot/supportpilot/pkg/llm/providers"
	"github.com/supportpilot/supportpilot/pkg/logging"
	"github.com/supportpilot/supportpilot/pkg/metrics"
	"github.com/supportpilot/supportpilot/pkg/session"
	"github.com/supportpilot/supportpilot/pkg/tickets"
)

const banner = `
╔════════════════════════════════════════════════════════╗
║                    SupportPilot                        ║
║            AI-Powered IT Support Assistant             ║
║                                                        ║
║   Multi-Agent System | L1 Resolution | L2 Escalation   ║
╚════════════════════════════════════════════════════════╝
`

const helpText = `
Available commands:
  /help      - Show this help message
  /status    - Show system metrics
  /reset     - Reset session (start a fresh conversation)
  quit       - Exit (also: exit, bye)

Just type your IT support question to get started!

Examples:
  - "My VPN is not connecting"
  - "I forgot my password"
  - "Create a ticket for printer issues"
  - "What are my tickets?"`

func main() {
	var (
		userID     = flag.String("user", "demo_user_001", "user id to chat as")
		role       = flag.String("role", "", "role: end_user or service_desk_agent (defaults to end_user)")
		configPath = flag.String("config", "supportpilot.yaml", "path to config file")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	user, err := identity.NewUser(*userID, *role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "identity: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.APIKey() == "" {
		fmt.Fprintf(os.Stderr, "no API key configured for provider %q\n", cfg.Provider)
		os.Exit(1)
	}

	fmt.Print(banner)

	orchestrator, sessions, collector, ticketStore, err := buildSystem(cfg, logger)
	if err != nil {
		logger.Fatal("initialization failed", zap.Error(err))
	}

	fmt.Println(helpText)
	fmt.Println(greet(ticketStore, user))
	fmt.Printf("Chatting as: %s (%s)\n", user.ID, user.Role)
	fmt.Println(strings.Repeat("=", 60))

	runREPL(orchestrator, sessions, collector, user.ID)
}

// greet checks the ticket store for prior history under this user id.
func greet(store *tickets.Store, user identity.User) string {
	history, err := store.List(context.Background(), identity.User{ID: user.ID, Role: identity.RoleEndUser})
	if err == nil && len(history) > 0 {
		return fmt.Sprintf("SupportPilot: Welcome back, %s! (New Session Started)", user.ID)
	}
	return fmt.Sprintf("SupportPilot: Hello %s! Creating your profile...", user.ID)
}

func buildSystem(cfg *config.Config, logger *zap.Logger) (*agents.Orchestrator, *session.Store, *metrics.Collector, *tickets.Store, error) {
	sqlDB, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(sqlDB); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("migrating database: %w", err)
	}

	kbStore, err := kb.Load(cfg.KBPath, logger)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("loading knowledge base: %w", err)
	}

	provider, err := providers.NewProvider(llm.ProviderConfig{
		Type:   cfg.Provider,
		APIKey: cfg.APIKey(),
		Model:  cfg.Model,
	})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("creating LLM provider: %w", err)
	}

	ticketStore := tickets.NewStore(sqlDB, logger)
	sessions := session.NewStore(logger)
	collector := metrics.NewCollector()

	orchestrator := agents.NewOrchestrator(
		agents.NewKnowledgeAgent(provider, kbStore, logger),
		agents.NewCreationAgent(provider, ticketStore, logger),
		agents.NewQueryAgent(provider, ticketStore, logger),
		sessions,
		collector,
		logger,
	)
	return orchestrator, sessions, collector, ticketStore, nil
}

func runREPL(orchestrator *agents.Orchestrator, sessions *session.Store, collector *metrics.Collector, userID string) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "bye", "/quit":
			fmt.Println("\nGoodbye!")
			return
		case "/help":
			fmt.Println(helpText)
			continue
		case "/status":
			fmt.Println("\n" + collector.Report())
			continue
		case "/reset":
			sessions.Reset(userID)
			fmt.Println("\nSession reset. Starting fresh conversation.")
			continue
		}
		if strings.HasPrefix(input, "/") {
			fmt.Printf("Unknown command: %s\nType /help for available commands\n", input)
			continue
		}

		response := orchestrator.ProcessMessage(ctx, userID, input)
		fmt.Printf("\nSupportPilot: %s\n", response)
	}
}
