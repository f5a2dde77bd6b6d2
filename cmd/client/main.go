package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/medicnotes/medicnotes/internal/client/api"
	"github.com/medicnotes/medicnotes/internal/client/auth"
	"github.com/medicnotes/medicnotes/internal/client/route"
	"github.com/medicnotes/medicnotes/internal/client/session"
	"github.com/medicnotes/medicnotes/internal/logger"
	"github.com/medicnotes/medicnotes/internal/models"
)

var (
	version   string
	buildDate string
)

// console drives the interactive shell: every navigation between areas goes
// through the route authorizer, and all auth state changes go through the
// controller.
type console struct {
	scanner *bufio.Scanner
	ctrl    *auth.Controller
	api     *api.Client
	store   *session.Store
	area    route.Area
}

// run is the navigation loop. An area is only rendered after the authorizer
// allows it; redirects move the current area and loop again.
func (c *console) run() {
	c.area = route.AreaHome
	for {
		decision := route.Authorize(c.area, c.ctrl.State())
		if !decision.Allow {
			if decision.RedirectTo == c.area {
				// Redirect to the current area means the state is
				// unusable (unrecognized role); drop the session.
				c.ctrl.Logout()
			}
			c.area = decision.RedirectTo
			continue
		}

		var next route.Area
		var ok bool
		switch c.area {
		case route.AreaHome:
			next, ok = c.home()
		case route.AreaLogin:
			next, ok = c.loginPrompt()
		case route.AreaAdminDashboard:
			next, ok = c.adminDashboard()
		case route.AreaDoctorDashboard:
			next, ok = c.doctorDashboard()
		case route.AreaPatientDashboard:
			next, ok = c.patientDashboard()
		}
		if !ok {
			fmt.Println("Bye")
			return
		}
		c.area = next
	}
}

// prompt prints the label and reads one trimmed line. The second return
// value is false on EOF.
func (c *console) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *console) home() (route.Area, bool) {
	state := c.ctrl.State()
	if state.IsAuthenticated {
		fmt.Printf("Welcome back, %s (%s).\n", state.User.Name, state.Role)
	} else {
		fmt.Println("Welcome to MedicNotes.")
	}
	fmt.Println("Available commands: login, dashboard, exit")

	for {
		line, ok := c.prompt("medicnotes> ")
		if !ok {
			return c.area, false
		}
		switch line {
		case "":
		case "login", "dashboard":
			// Both land on the right area: the authorizer sends
			// authenticated users from login to their dashboard and
			// anonymous users from a dashboard to login.
			if line == "login" {
				return route.AreaLogin, true
			}
			canonical, ok := route.CanonicalArea(c.ctrl.State().Role)
			if !ok {
				return route.AreaLogin, true
			}
			return canonical, true
		case "exit":
			return c.area, false
		default:
			fmt.Println("Unknown command. Available commands: login, dashboard, exit")
		}
	}
}

// loginPrompt collects credentials and attempts one login. The prompt is
// blocked while a login is in flight, so rapid re-submits cannot race.
func (c *console) loginPrompt() (route.Area, bool) {
	roleStr, ok := c.prompt("Role (admin/doctor/patient): ")
	if !ok {
		return c.area, false
	}
	identifier, ok := c.prompt("Email, phone, or ID: ")
	if !ok {
		return c.area, false
	}
	password, ok := c.prompt("Password: ")
	if !ok {
		return c.area, false
	}

	role, _ := models.ParseRole(roleStr)
	if err := c.ctrl.Login(context.Background(), role, identifier, password); err != nil {
		fmt.Println(friendly(err))
		return route.AreaLogin, true
	}

	state := c.ctrl.State()
	fmt.Printf("Logged in as %s (%s).\n", state.Username, state.Role)
	canonical, ok := route.CanonicalArea(state.Role)
	if !ok {
		return route.AreaLogin, true
	}
	return canonical, true
}

// friendly maps the auth error taxonomy onto the transient messages shown
// near the login form.
func friendly(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return "Please select a valid role and enter both an identifier and a password."
	case errors.Is(err, models.ErrInvalidCredentials):
		return "Invalid credentials. Please try again."
	case errors.Is(err, models.ErrNetworkUnavailable):
		return "Cannot reach the server. Please try again later."
	case errors.Is(err, models.ErrSessionExpired):
		return "Your session has expired. Please log in again."
	}
	var srvErr *models.ServerError
	if errors.As(err, &srvErr) && srvErr.Message != "" {
		return srvErr.Message
	}
	return "Something went wrong. Please try again."
}

// main parses command-line flags and starts the console.
func main() {
	var (
		baseURL    string
		sessionDir string
		timeoutSec int
		showVer    bool
	)

	home, _ := os.UserHomeDir()

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "backend base URL")
	flag.StringVar(&sessionDir, "dir", filepath.Join(home, ".medicnotes"), "session storage directory")
	flag.IntVar(&timeoutSec, "timeout", 15, "request timeout in seconds")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("MedicNotes Console\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	zlog := logger.New()
	if err := zlog.Init("error"); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Log.Sync() }()

	timeout := time.Duration(timeoutSec) * time.Second
	store := session.NewStore(sessionDir, zlog.Log)
	authenticator := auth.NewAuthenticator(baseURL, timeout, zlog.Log)
	ctrl := auth.NewController(store, authenticator, zlog.Log)
	ctrl.Hydrate()

	client := api.New(baseURL, timeout, ctrl.Token, func(reason string) {
		ctrl.ForceLogout(reason)
		fmt.Println("Your session has expired. Please log in again.")
	}, zlog.Log)

	c := &console{
		scanner: bufio.NewScanner(os.Stdin),
		ctrl:    ctrl,
		api:     client,
		store:   store,
	}
	c.run()
}
