package admincli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"Hyeyum_Board/internal/config"
	"Hyeyum_Board/internal/repository/mysql"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Env 子命令共用的运行环境，测试时可以直接注入 Handle
type Env struct {
	Handle *mysql.Handle
	Config *config.Config
	Stdin  io.Reader
	Out    io.Writer
}

func NewEnv() *Env {
	return &Env{Stdin: os.Stdin, Out: os.Stdout}
}

func (e *Env) config() (*config.Config, error) {
	if e.Config != nil {
		return e.Config, nil
	}
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("No .env file loaded")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	e.Config = cfg
	return cfg, nil
}

func (e *Env) handle() (*mysql.Handle, error) {
	if e.Handle != nil {
		return e.Handle, nil
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, fmt.Errorf("database configuration is missing: %w", err)
	}
	e.Handle = mysql.NewHandle(func() (*gorm.DB, error) {
		return mysql.Open(dsn)
	})
	return e.Handle, nil
}

func (e *Env) readPassword(flagValue string, fromStdin bool) (string, error) {
	password := flagValue
	if fromStdin {
		l, err := bufio.NewReader(e.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		password = strings.TrimRight(l, "\r\n")
	}
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}
