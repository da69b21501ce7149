package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"finchat/config"
	"finchat/internal/orchestrator"
	"finchat/internal/server"
	"finchat/internal/session"
	"finchat/internal/state"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "finchat",
		Short: "FinChat - Conversational Financial Analysis Assistant",
		Long: `FinChat is a conversational assistant for financial analysis.
Ask about companies in plain English and get company profiles, financial
metrics, statement breakdowns, peer comparisons and analyst recommendations.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, _ := cmd.Flags().GetString("session")
			return runChat(cmd.Context(), cfg, sessionID)
		},
	}

	rootCmd.AddCommand(newChatCmd(cfg))
	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newServeCmd(cfg))
	rootCmd.AddCommand(newSessionsCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.Flags().String("session", "", "Session id to resume")

	return rootCmd
}

// newChatCmd creates the interactive chat command
func newChatCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive analysis conversation",
		Long: `Start an interactive conversation with the assistant.
Example: finchat chat --session 2f9d41c0-8a57-4c21-9e7e-1f0b63f7a921`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, _ := cmd.Flags().GetString("session")
			return runChat(cmd.Context(), cfg, sessionID)
		},
	}

	cmd.Flags().String("session", "", "Session id to resume (new session if not provided)")
	return cmd
}

// newAnalyzeCmd creates the one-shot analyze command
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [QUESTION]",
		Short: "Run a single analysis request",
		Long: `Run a single analysis request and print the reply.
Example: finchat analyze "compare AAPL and MSFT"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cfg, strings.Join(args, " "))
		},
	}
}

// newServeCmd creates the HTTP server command
func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.ServerAddr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
	return cmd
}

// newSessionsCmd creates the session management command
func newSessionsCmd(cfg *config.Config) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored conversation sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsList(cmd.Context(), cfg)
		},
	}

	sessionsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsList(cmd.Context(), cfg)
		},
	})

	sessionsCmd.AddCommand(&cobra.Command{
		Use:   "delete [SESSION_ID]",
		Short: "Delete a stored session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionsDelete(cmd.Context(), cfg, args[0])
		},
	})

	return sessionsCmd
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("FinChat v1.0.0")
			fmt.Println("Conversational Financial Analysis Assistant")
		},
	}
}

// runChat drives the interactive conversation loop.
func runChat(ctx context.Context, cfg *config.Config, sessionID string) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	st, err := loadOrCreateState(ctx, rt, sessionID)
	if err != nil {
		return err
	}

	engine, err := orchestrator.NewEngine(ctx, rt.interpreter, rt.registry, rt.generator, st, rt.log)
	if err != nil {
		return err
	}

	DisplayWelcomeBanner()
	DisplaySessionHeader(st.SessionID, st.Companies)
	DisplayAgentReply(rt.generator.Welcome())

	for {
		input, err := PromptForMessage()
		if err != nil {
			// Ctrl-C or closed stdin ends the conversation.
			return saveState(ctx, rt, engine)
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit", "bye":
			DisplayInfo("👋 Goodbye! Your session is saved as " + st.SessionID)
			return saveState(ctx, rt, engine)
		}

		reply := engine.ProcessUserRequest(ctx, input)
		if err := saveState(ctx, rt, engine); err != nil {
			DisplayError(err)
		}
		DisplayAgentReply(reply)
	}
}

// runAnalyze runs a single turn, asking one follow-up question when the
// request needs clarification.
func runAnalyze(ctx context.Context, cfg *config.Config, question string) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	st := state.New(session.NewSessionID())
	engine, err := orchestrator.NewEngine(ctx, rt.interpreter, rt.registry, rt.generator, st, rt.log)
	if err != nil {
		return err
	}

	reply := engine.ProcessUserRequest(ctx, question)
	if st.NeedsClarification {
		answer, err := PromptForClarification(reply)
		if err != nil {
			return err
		}
		reply = engine.ProcessUserRequest(ctx, answer)
	}

	fmt.Println(reply)
	return nil
}

// runServe starts the HTTP front-end with config hot reload: edits to
// config.json swap the interpreter and cache settings on live sessions.
func runServe(ctx context.Context, cfg *config.Config) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	manager, err := config.NewManager(
		config.WithConfigDir(cfg.DataDir),
		config.WithInitialConfig(cfg),
		config.WithLogger(rt.log),
	)
	if err != nil {
		return fmt.Errorf("init config manager: %w", err)
	}
	if err := manager.Watch(ctx, func(newCfg config.Config) {
		rt.applyConfig(ctx, newCfg)
	}); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	srv := server.New(rt.store, rt.interpreter, rt.registry, rt.generator, rt.log)
	fmt.Printf("🚀 FinChat serving on %s (POST /chat, GET /ws)\n", cfg.ServerAddr)
	fmt.Printf("⚙️  Live config at %s\n", manager.Path())
	return srv.ListenAndServe(cfg.ServerAddr)
}

func runSessionsList(ctx context.Context, cfg *config.Config) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	infos, err := rt.store.List(ctx)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No stored sessions.")
		return nil
	}

	fmt.Printf("%-38s %-22s %6s  %s\n", "SESSION", "COMPANIES", "TURNS", "UPDATED")
	for _, info := range infos {
		companies := strings.Join(info.Companies, ",")
		if companies == "" {
			companies = "-"
		}
		fmt.Printf("%-38s %-22s %6d  %s\n",
			info.ID, companies, info.Turns, info.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsDelete(ctx context.Context, cfg *config.Config, id string) error {
	rt, err := newRuntime(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.store.Delete(ctx, id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return fmt.Errorf("session %s not found", id)
		}
		return err
	}
	fmt.Printf("Deleted session %s\n", id)
	return nil
}

func loadOrCreateState(ctx context.Context, rt *runtime, sessionID string) (*state.ConversationState, error) {
	if sessionID == "" {
		return state.New(session.NewSessionID()), nil
	}

	st, err := rt.store.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		DisplayInfo(fmt.Sprintf("Session %s not found, starting a new one.", sessionID))
		return state.New(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return st, nil
}

func saveState(ctx context.Context, rt *runtime, engine *orchestrator.Engine) error {
	if err := rt.store.Save(ctx, engine.State()); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("📋 Current FinChat Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Printf("Session Database:     %s\n", cfg.SessionDBPath)
	fmt.Println()
	fmt.Printf("Server Address:       %s\n", cfg.ServerAddr)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Println()

	fmt.Println("🧠 Interpreter:")
	fmt.Println("─────────────────────")
	if cfg.LLMEnabled && cfg.LLMAPIKey != "" {
		fmt.Println("LLM Refinement:       ✅ Enabled")
		fmt.Printf("Model:                %s\n", cfg.LLMModel)
		fmt.Printf("Base URL:             %s\n", cfg.LLMBaseURL)
		fmt.Printf("Confidence Threshold: %.2f\n", cfg.LLMConfidenceThreshold)
	} else {
		fmt.Println("LLM Refinement:       ❌ Disabled (rule-based only)")
	}
}

// validateConfig validates the configuration and dependencies
func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating FinChat Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking LLM configuration... ")
	if cfg.LLMEnabled && cfg.LLMAPIKey == "" {
		fmt.Println("⚠️")
		fmt.Println("  ⚠️  LLM refinement enabled but LLM_API_KEY is not set; falling back to rules")
	} else {
		fmt.Println("✅")
	}

	fmt.Println()
	fmt.Println("✅ Configuration validation completed!")
	return nil
}
