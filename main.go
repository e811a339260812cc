package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccfrost/photodrop/commands"
	"github.com/ccfrost/photodrop/internal/auth"
	"github.com/ccfrost/photodrop/internal/config"
	"github.com/ccfrost/photodrop/internal/lib"
	"github.com/ccfrost/photodrop/internal/lib/googlephotos"
	"github.com/ccfrost/photodrop/internal/server"
	"github.com/ccfrost/photodrop/internal/store"
	gphotos "github.com/gphotosuploader/google-photos-api-client-go/v3"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

const photodrop = "photodrop"

// app holds what PersistentPreRunE sets up for the subcommands.
type app struct {
	config config.PhotodropConfig
	store  *store.GormStore
}

// authService builds the Google Photos authorizer. It is not built up front
// so that props and redirect-uri work before credentials are configured.
func (a *app) authService() (*auth.Service, error) {
	svc, err := auth.NewPhotosService(a.config, a.store)
	if err != nil {
		return nil, fmt.Errorf("failed to configure authorization: %w", err)
	}
	return svc, nil
}

func (a *app) httpClient() *http.Client {
	return &http.Client{Timeout: a.config.HTTPTimeout()}
}

func (a *app) photosClient(opts ...googlephotos.Option) *googlephotos.Client {
	opts = append([]googlephotos.Option{googlephotos.WithBaseURL(a.config.GooglePhotos.APIBaseURL)}, opts...)
	return googlephotos.NewClient(a.httpClient(), opts...)
}

// newRootCmd builds the command tree. PersistentPreRunE fills in a.
func newRootCmd(a *app) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          photodrop,
		Short:        "Save images from URLs to Google Photos",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}
			var err error
			a.config, err = config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := a.config.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			a.store, err = store.Open(a.config.Store.Driver, a.config.Store.DSN)
			if err != nil {
				return err
			}
			if err := store.SyncCredentials(cmd.Context(), a.store, &a.config.GooglePhotos); err != nil {
				return err
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")

	serveCmd := cobra.Command{
		Use:   "serve",
		Short: "Serve upload requests and the authorization callback",
		Long: `Serve upload requests over HTTP.

POST or GET / with url, name, description and albumName parameters saves the
image at url to Google Photos. The answer is always 200 with {"status": bool}.
GET /auth starts authorization; Google redirects back to the callback path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.authService()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			uploader := lib.NewUploader(svc, a.photosClient(), lib.MustNewMetrics(reg))

			srv, err := server.New(server.Options{
				Workflow:     uploader,
				OAuth:        svc,
				CallbackPath: a.config.Server.CallbackPath,
				Gatherer:     reg,
				Logger:       lib.Logger(),
			})
			if err != nil {
				return err
			}

			if !svc.IsAuthorized(cmd.Context()) {
				lib.Logger().Warn("Not authorized yet, open /auth to grant access",
					"redirect_uri", svc.RedirectURL())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, a.config.Server.Addr)
		},
	}
	rootCmd.AddCommand(&serveCmd)

	authCmd := cobra.Command{
		Use:   "auth",
		Short: "Print the URL that grants access to Google Photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.authService()
			if err != nil {
				return err
			}
			if svc.IsAuthorized(cmd.Context()) {
				fmt.Println("Already authorized. Run `photodrop reset` to start over.")
				return nil
			}
			authURL, err := svc.AuthorizationURL(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Open the following URL and grant access:\n%s\n", authURL)
			fmt.Printf("`photodrop serve` must be running to receive the redirect to %s\n", svc.RedirectURL())
			return nil
		},
	}
	rootCmd.AddCommand(&authCmd)

	resetCmd := cobra.Command{
		Use:   "reset",
		Short: "Forget the stored Google Photos tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.authService()
			if err != nil {
				return err
			}
			if err := svc.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Stored tokens cleared.")
			return nil
		},
	}
	rootCmd.AddCommand(&resetCmd)

	redirectURICmd := cobra.Command{
		Use:   "redirect-uri",
		Short: "Print the redirect URI to register with Google",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(a.config.RedirectURL())
		},
	}
	rootCmd.AddCommand(&redirectURICmd)

	uploadCmd := cobra.Command{
		Use:   "upload",
		Short: "Save one image to Google Photos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req lib.UploadRequest
			var err error
			if req.URL, err = cmd.Flags().GetString("url"); err != nil {
				return fmt.Errorf("invalid url flag: %w", err)
			}
			if req.Name, err = cmd.Flags().GetString("name"); err != nil {
				return fmt.Errorf("invalid name flag: %w", err)
			}
			if req.Description, err = cmd.Flags().GetString("description"); err != nil {
				return fmt.Errorf("invalid description flag: %w", err)
			}
			if req.AlbumName, err = cmd.Flags().GetString("album"); err != nil {
				return fmt.Errorf("invalid album flag: %w", err)
			}

			svc, err := a.authService()
			if err != nil {
				return err
			}
			bars := commands.NewProgressBars(os.Stderr)
			defer bars.Finish()
			uploader := lib.NewUploader(svc, a.photosClient(googlephotos.WithProgress(bars.Update)), nil)
			return commands.Upload(cmd.Context(), uploader, req, os.Stdout)
		},
	}
	uploadCmd.Flags().StringP("url", "u", "", "URL of the image to save (required)")
	uploadCmd.Flags().StringP("name", "n", "", "File name to store the image under")
	uploadCmd.Flags().StringP("description", "d", "", "Description of the media item")
	uploadCmd.Flags().StringP("album", "a", "", "Album to add the image to, created if missing")
	rootCmd.AddCommand(&uploadCmd)

	albumsCmd := cobra.Command{
		Use:   "albums",
		Short: "List every Google Photos album",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.authService()
			if err != nil {
				return err
			}
			ctx := context.WithValue(cmd.Context(), oauth2.HTTPClient, a.httpClient())
			httpClient, err := svc.HTTPClient(ctx)
			if err != nil {
				return err
			}
			gphotosClient, err := gphotos.NewClient(httpClient)
			if err != nil {
				return err
			}
			return commands.ListAlbums(ctx, gphotosClient.Albums, os.Stdout)
		},
	}
	rootCmd.AddCommand(&albumsCmd)

	rootCmd.AddCommand(newPropsCmd(a))

	return rootCmd
}

// execute runs rootCmd and then closes the store. The store is closed here
// rather than in a post-run hook, which cobra skips when a command fails.
func execute(ctx context.Context, rootCmd *cobra.Command, a *app) error {
	err := rootCmd.ExecuteContext(ctx)
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close store: %w", cerr)
		}
	}
	return err
}

func main() {
	var a app
	if err := execute(context.Background(), newRootCmd(&a), &a); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newPropsCmd(a *app) *cobra.Command {
	propsCmd := &cobra.Command{
		Use:   "props",
		Short: "Maintain the credential store",
		Long: fmt.Sprintf(`Maintain the credential store.

Well-known keys: %s, %s and %s (the login hint).`, store.KeyClientID, store.KeyClientSecret, store.KeyEmail),
	}

	propsCmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.GetProp(cmd.Context(), a.store, args[0], os.Stdout)
		},
	})
	propsCmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.SetProp(cmd.Context(), a.store, args[0], args[1])
		},
	})
	propsCmd.AddCommand(&cobra.Command{
		Use:   "delete KEY",
		Short: "Delete a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.DeleteProp(cmd.Context(), a.store, args[0])
		},
	})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reveal, err := cmd.Flags().GetBool("reveal")
			if err != nil {
				return fmt.Errorf("invalid reveal flag: %w", err)
			}
			return commands.ListProps(cmd.Context(), a.store, reveal, os.Stdout)
		},
	}
	listCmd.Flags().Bool("reveal", false, "Print secrets and tokens instead of redacting them")
	propsCmd.AddCommand(listCmd)

	return propsCmd
}
