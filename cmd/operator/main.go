package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pos/internal/config"
	"pos/internal/domain/model"
	"pos/internal/infra/db"
	infraRepo "pos/internal/infra/repository"
	auth "pos/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 担当者（レジ係・責任者）を登録する
// go run ./cmd/operator -code 001 -name "Taro" -pin 1234 -role SUPERVISOR
func main() {
	code := flag.String("code", "", "operator code")
	name := flag.String("name", "", "operator name")
	pin := flag.String("pin", "", "4-8 digit PIN")
	role := flag.String("role", string(model.RoleCashier), "CASHIER or SUPERVISOR")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := db.Migrate(gormDB); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	uc := auth.NewCreateOperatorUsecase(
		infraRepo.NewOperatorGormRepository(gormDB),
		auth.NewBcryptPINHasher(12),
		&realClock{},
	)

	op, err := uc.Execute(context.Background(), auth.CreateOperatorInput{
		Code: *code,
		Name: *name,
		PIN:  *pin,
		Role: model.Role(*role),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("operator %s (%s) created: id=%d\n", op.Code, op.Role, op.ID)
}
