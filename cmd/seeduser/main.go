// Command seeduser creates (or resets) a demo empresa and its admin user.
// Intended for local development and first-boot provisioning:
//
//	DATABASE_URL=postgres://... go run ./cmd/seeduser -empresa "Minha Assistência" -username admin -password admin123
package main

import (
	"flag"
	"fmt"
	"os"

	"assistec/internal/infra"
	"assistec/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	empresaNome := flag.String("empresa", "AssisTec Demo", "nome da empresa")
	username := flag.String("username", "admin", "username do administrador")
	password := flag.String("password", "", "senha do administrador (obrigatório)")
	nome := flag.String("nome", "Administrador", "nome completo")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "uso: seeduser -password <senha> [-empresa ...] [-username ...]")
		os.Exit(1)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL não definida")
		os.Exit(1)
	}

	db, err := infra.NewDatabase(dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "erro ao conectar no banco: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		fmt.Fprintf(os.Stderr, "erro ao gerar hash: %v\n", err)
		os.Exit(1)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		empresa := model.Empresa{Nome: *empresaNome}
		if err := tx.Where("nome = ?", *empresaNome).FirstOrCreate(&empresa).Error; err != nil {
			return err
		}

		usuario := model.Usuario{
			EmpresaID:    empresa.ID,
			Username:     *username,
			Nome:         *nome,
			PasswordHash: string(hash),
			Rol:          "administrador",
			Ativo:        true,
		}
		// Re-running resets the password and reactivates the account.
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"password_hash": string(hash),
				"rol":           "administrador",
				"ativo":         true,
			}),
		}).Create(&usuario).Error
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "erro ao criar usuário: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("empresa %q e usuário %q prontos\n", *empresaNome, *username)
}
