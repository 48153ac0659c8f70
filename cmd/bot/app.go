package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/gorilla/mux"
	"github.com/karma-bot/karma/cmd/bot/config"
	"github.com/karma-bot/karma/cmd/bot/monitoring"
	"github.com/karma-bot/karma/pkg/dataaccess"
	"github.com/karma-bot/karma/pkg/logging"
	"github.com/karma-bot/karma/pkg/request"
	"github.com/karma-bot/karma/pkg/ticketing"
	"github.com/karma-bot/karma/pkg/webhook"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for health check.
	PathHealth = "/health"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the application logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// GuildDal returns the guild data access layer.
	GuildDal() dataaccess.GuildDal

	// TicketDal returns the ticket data access layer.
	TicketDal() dataaccess.TicketDal

	// Tickets returns the ticket lifecycle controller.
	Tickets() *ticketing.Controller

	// Panel returns the panel registry.
	Panel() *ticketing.PanelRegistry
}

type App struct {
	// l is the logger.
	l *slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// guildDal is the guild data access layer.
	guildDal dataaccess.GuildDal

	// ticketDal is the ticket data access layer.
	ticketDal dataaccess.TicketDal

	// tickets is the ticket lifecycle controller.
	tickets *ticketing.Controller

	// panel is the panel registry.
	panel *ticketing.PanelRegistry

	// audit fans lifecycle events out to the configured sinks.
	audit *ticketing.AuditDispatcher
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		l: l,
		r: r,
	}
}

func (a *App) Run() error {
	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.l.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	// Register slash commands. Requires the session to be open so the joined
	// guilds can be listed.
	if err := a.registerSlashCommands(); err != nil {
		return fmt.Errorf("error registering slash commands: %w", err)
	}

	a.l.Info("Bot is now running.")

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.l.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.l.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	// Unregister slash commands.
	if err := a.unregisterSlashCommands(); err != nil {
		return fmt.Errorf("error unregistering slash commands: %w", err)
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Create event notifier. This is used to observe events. It is buffered to prevent blocking.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg

	a.guildDal = dataaccess.NewGuildDal()
	a.ticketDal = dataaccess.NewTicketDal()

	channels := newSessionChannels(dg)
	messenger := newSessionMessenger(dg)

	a.audit = ticketing.NewAuditDispatcher(a.l, a.guildDal, messenger, webhook.NewClient())
	a.tickets = ticketing.NewController(a.l, channels, messenger, a.guildDal, a.ticketDal, a.audit)
	a.panel = ticketing.NewPanelRegistry(a.l, a.guildDal, channels, messenger)
	return nil
}

func (a *App) runServer() {
	go func() {
		a.l.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.l.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.l.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.l)

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.l)
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Slash command controllers.
		map[string]commandController{
			setupCmdName:      setupCmdController,
			panelCmdName:      panelCmdController,
			buttonCmdName:     buttonCmdController,
			ticketCmdName:     ticketCmdController,
			logChannelCmdName: logChannelCmdController,
			webhookCmdName:    webhookCmdController,
		},
		// Component controllers. Panel buttons carry dynamic IDs and are
		// resolved by the fallback in the handler.
		map[string]commandProcessor{
			ticketing.ClaimButtonID:       claimTicketHandler,
			ticketing.CloseButtonID:       closeTicketHandler,
			ticketing.CloseReasonButtonID: closeReasonHandler,
		},
		// Modal submit controllers.
		map[string]commandProcessor{
			ticketing.CloseReasonModalID: closeReasonModalHandler,
			ticketing.PanelEmbedModalID:  panelEmbedModalHandler,
		}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.l.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

// slashCommands is every application command the bot registers.
var slashCommands = []*discordgo.ApplicationCommand{
	setupCmd,
	panelCmd,
	buttonCmd,
	ticketCmd,
	logChannelCmd,
	webhookCmd,
}

func (a *App) registerSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Register slash commands for each guild.
	for _, g := range guilds {
		for _, cmd := range slashCommands {
			registered, err := a.s.ApplicationCommandCreate(config.ApplicationId, g.ID, cmd)
			if err != nil {
				return fmt.Errorf("error creating %s command for guild %s: %w", cmd.Name, g.ID, err)
			}
			cmd.ID = registered.ID
		}
	}
	return nil
}

func (a *App) unregisterSlashCommands() error {
	// Get all guilds the bot is in.
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return fmt.Errorf("error getting guilds: %w", err)
	}

	// Delete slash commands for each guild.
	for _, guild := range guilds {
		for _, cmd := range slashCommands {
			if err := a.s.ApplicationCommandDelete(config.ApplicationId, guild.ID, cmd.ID); err != nil {
				return fmt.Errorf("error deleting %s command for guild %s: %w", cmd.Name, guild.ID, err)
			}
		}
	}
	return nil
}

func (a *App) Log() *slog.Logger {
	return a.l
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) GuildDal() dataaccess.GuildDal {
	return a.guildDal
}

func (a *App) TicketDal() dataaccess.TicketDal {
	return a.ticketDal
}

func (a *App) Tickets() *ticketing.Controller {
	return a.tickets
}

func (a *App) Panel() *ticketing.PanelRegistry {
	return a.panel
}
