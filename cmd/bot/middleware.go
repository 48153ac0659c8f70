package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/gorilla/mux"
	"github.com/karma-bot/karma/cmd/bot/monitoring"
	"github.com/karma-bot/karma/pkg/logging"
	"github.com/karma-bot/karma/pkg/request"
	"github.com/karma-bot/karma/pkg/ticketing"
	"github.com/prometheus/client_golang/prometheus"
)

// commandController resolves a slash command to its processor. It runs any
// shared guards (permissions, sub-command dispatch) before work starts.
type commandController func(a IApp, i *discordgo.InteractionCreate) (commandProcessor, error)

// commandProcessor is the processor for a single interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run the deferred function after the request has been handled, as the status code will not be available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler routes every interaction the gateway delivers. Slash
// commands dispatch by command name, components by custom ID and modal
// submissions by form ID. Component IDs that resolve to neither a fixed verb
// nor a panel button are ignored; they come from stale panels.
func interactionHandler(a IApp, controllers map[string]commandController, components map[string]commandProcessor, modals map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			handleSlashCommand(a, i, controllers)
		case discordgo.InteractionMessageComponent:
			handleComponent(a, i, components)
		case discordgo.InteractionModalSubmit:
			handleModalSubmit(a, i, modals)
		}
	}
}

func handleSlashCommand(a IApp, i *discordgo.InteractionCreate, controllers map[string]commandController) {
	name := i.ApplicationCommandData().Name
	a.Log().Debug("Handling interaction " + name)

	t := prometheus.NewTimer(monitoring.DiscordCommandDuration.WithLabelValues(name))
	defer t.ObserveDuration()

	controller, ok := controllers[name]
	if !ok {
		a.Log().Error(fmt.Sprintf("No controller found for command %s", name),
			slog.String("command", name))

		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	}

	processor, err := controller(a, i)
	if err != nil {
		a.Log().Error(fmt.Sprintf("Error getting processor for command %s", name),
			slog.String(logging.KeyError, err.Error()))

		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
		return
	} else if processor == nil {
		// The controller already responded (failed guard).
		return
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing command %s", name),
			slog.String(logging.KeyError, err.Error()))

		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func handleComponent(a IApp, i *discordgo.InteractionCreate, components map[string]commandProcessor) {
	customID := i.MessageComponentData().CustomID

	processor, ok := components[customID]
	if !ok {
		// Panel buttons carry a dynamic ID encoding their label and category.
		if _, isButton := ticketing.ParseButtonID(customID); isButton {
			processor = openTicketHandler
		} else {
			a.Log().Debug("Ignoring unrecognised component", slog.String("custom_id", customID))
			return
		}
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing component %s", customID),
			slog.String(logging.KeyError, err.Error()))

		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func handleModalSubmit(a IApp, i *discordgo.InteractionCreate, modals map[string]commandProcessor) {
	customID := i.ModalSubmitData().CustomID

	processor, ok := modals[customID]
	if !ok {
		a.Log().Debug("Ignoring unrecognised modal submission", slog.String("custom_id", customID))
		return
	}

	if err := processor(a, i); err != nil {
		a.Log().Error(fmt.Sprintf("Error processing modal %s", customID),
			slog.String(logging.KeyError, err.Error()))

		if err := respondSlashError(a, i); err != nil {
			a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
		}
	}
}
