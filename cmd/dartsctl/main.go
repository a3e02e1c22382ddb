// dartsctl es la CLI de consulta y administración de la API. Mantiene la
// sesión OIDC en ~/.dartsstats/session.json y refresca tokens on-demand.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/dartsstats/internal/auth/keycloak"
	"github.com/dropDatabas3/dartsstats/internal/session"
)

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

type cli struct {
	apiURL  string
	session *session.Client
	http    *http.Client
}

func (c *cli) get(path string) (int, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, strings.TrimRight(c.apiURL, "/")+path, nil)
	if err != nil {
		return 0, nil, err
	}
	tok, err := c.session.AccessToken(req.Context())
	if err != nil {
		return 0, nil, err
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b, nil
}

func (c *cli) printJSON(body []byte) {
	var v any
	if json.Unmarshal(body, &v) == nil {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Println(string(p))
		return
	}
	fmt.Println(string(body))
}

func main() {
	var (
		apiURL    = envOr("DARTS_API_URL", "http://localhost:8080")
		authority = envOr("KEYCLOAK_AUTHORITY", "")
		clientID  = envOr("KEYCLOAK_CLIENT_ID", "dartsstats-web")
	)

	sessionPath, err := session.DefaultSessionPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot resolve home dir:", err)
		os.Exit(1)
	}

	provider := keycloak.New(authority, clientID, "", "openid profile email roles")
	sess := session.New(provider, session.NewFileStorage(sessionPath))
	c := &cli{
		apiURL:  apiURL,
		session: sess,
		http:    &http.Client{Timeout: 30 * time.Second},
	}

	root := &cobra.Command{
		Use:   "dartsctl",
		Short: "CLI para la API de estadísticas de darts",
	}
	root.PersistentFlags().StringVar(&c.apiURL, "api-url", apiURL, "Base URL de la API (env DARTS_API_URL)")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Imprime la URL de login para abrir en el browser",
		Long: "Abrir la URL en el browser, completar el login y copiar la URL final\n" +
			"(la que lleva token y refreshToken en la query). Luego correr:\n" +
			"  dartsctl session import \"<url final>\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(strings.TrimRight(c.apiURL, "/") + "/api/auth/login?returnUrl=/")
			return nil
		},
	}

	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manejo de la sesión local",
	}

	importCmd := &cobra.Command{
		Use:   "import <url>",
		Short: "Importa la sesión desde la URL de retorno del login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid URL: %w", err)
			}
			q := u.Query()
			if q.Get("token") == "" {
				return fmt.Errorf("URL has no token parameter")
			}
			if err := sess.HandleCallback(q); err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", sess.Username())
			return nil
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Muestra la sesión actual",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sess.IsAuthenticated(cmd.Context()) {
				fmt.Println("not logged in")
				return nil
			}
			fmt.Printf("user: %s\nadmin: %v\n", sess.Username(), sess.IsAdmin(cmd.Context()))
			return nil
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Revoca la sesión y limpia el storage local",
		RunE: func(cmd *cobra.Command, args []string) error {
			return sess.Logout(cmd.Context())
		},
	}

	playersCmd := &cobra.Command{
		Use:   "players",
		Short: "Lista los jugadores",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := c.get("/api/players")
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("status=%d body=%s", status, string(body))
			}
			c.printJSON(body)
			return nil
		},
	}

	var season, round string
	matchesCmd := &cobra.Command{
		Use:   "matches",
		Short: "Lista los partidos",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if season != "" {
				q.Set("season", season)
			}
			if round != "" {
				q.Set("round", round)
			}
			path := "/api/matches"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			status, body, err := c.get(path)
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("status=%d body=%s", status, string(body))
			}
			c.printJSON(body)
			return nil
		},
	}
	matchesCmd.Flags().StringVar(&season, "season", "", "Filtrar por temporada")
	matchesCmd.Flags().StringVar(&round, "round", "", "Filtrar por ronda")

	venueCmd := &cobra.Command{
		Use:   "venue <round>",
		Short: "Info del estadio de una ronda (ej: \"Night 1\")",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, body, err := c.get("/api/venues/" + url.PathEscape(args[0]))
			if err != nil {
				return err
			}
			if status/100 != 2 {
				return fmt.Errorf("status=%d body=%s", status, string(body))
			}
			c.printJSON(body)
			return nil
		},
	}

	sessionCmd.AddCommand(importCmd)
	root.AddCommand(loginCmd, sessionCmd, whoamiCmd, logoutCmd, playersCmd, matchesCmd, venueCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
