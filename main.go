package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ortosupport/course-assistant/config"
	"github.com/ortosupport/course-assistant/database"
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/util/random"
	"github.com/ortosupport/course-assistant/web"
	"github.com/ortosupport/course-assistant/web/service"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func loadConfig() *config.Config {
	if err := config.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	level, err := logger.LevelFromConfig(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
	return cfg
}

func openDB(cfg *config.Config) *gorm.DB {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}
	return db
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	cfg := loadConfig()
	defer logger.CloseLogger()

	db := openDB(cfg)
	defer database.Close(db)
	if err := database.Seed(context.Background(), db); err != nil {
		logger.Warning("seed database:", err)
	}

	server, err := web.NewServer(cfg, web.Dependencies{DB: db})
	if err != nil {
		log.Println(err)
		return
	}
	if err = server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server, err = web.NewServer(cfg, web.Dependencies{DB: db})
			if err != nil {
				log.Println(err)
				return
			}
			if err = server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	cfg := loadConfig()
	db := openDB(cfg)
	defer database.Close(db)

	fmt.Println("Start migrating database...")
	if err := database.Seed(context.Background(), db); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Migration done!")
}

const generatedPasswordLength = 16

// adminPassword returns the given password, or a generated one when empty.
func adminPassword(password string) (string, bool) {
	if password != "" {
		return password, false
	}
	return random.Password(generatedPasswordLength), true
}

func createAdmin(nu service.NewUser) {
	cfg := loadConfig()
	db := openDB(cfg)
	defer database.Close(db)

	var generated bool
	nu.Password, generated = adminPassword(nu.Password)
	nu.Role = model.RoleMaster
	user, err := service.NewUserService(db).CreateUser(context.Background(), nu)
	switch {
	case common.IsKind(err, common.KindConflict):
		fmt.Printf("user %s already exists\n", nu.Username)
	case err != nil:
		fmt.Println("create admin failed:", common.Message(err))
		os.Exit(1)
	default:
		fmt.Printf("created master %s (id %d)\n", user.Username, user.Id)
		if generated {
			fmt.Println("password:", nu.Password)
		}
	}
}

func listUsers() {
	cfg := loadConfig()
	db := openDB(cfg)
	defer database.Close(db)

	users, err := service.NewUserService(db).ListUsers(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	out, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func main() {
	var rootCmd = &cobra.Command{
		Use: config.GetName(),
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var createAdminCmd = &cobra.Command{
		Use:   "create-admin",
		Short: "Create a master account",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			createAdmin(service.NewUser{Username: username, Password: password, Name: name, Email: email})
		},
	}

	createAdminCmd.Flags().String("username", "admin", "set login username")
	createAdminCmd.Flags().String("password", "", "set login password (generated when empty)")
	createAdminCmd.Flags().String("name", "Administrator", "set display name")
	createAdminCmd.Flags().String("email", "admin@localhost", "set email")

	var usersCmd = &cobra.Command{
		Use:   "users",
		Short: "List accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listUsers()
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetName(), config.GetVersion())
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, createAdminCmd, usersCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
