package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/validador-leads-sunat/pkg/models"
	"github.com/validador-leads-sunat/pkg/utils"
)

const esquema = `
CREATE TABLE IF NOT EXISTS ruc_informacion_basica (
	id SERIAL PRIMARY KEY,
	ruc VARCHAR(11) NOT NULL UNIQUE,
	razon_social TEXT,
	tipo_contribuyente TEXT,
	estado TEXT,
	condicion TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS validacion_leads (
	id SERIAL PRIMARY KEY,
	corrida UUID NOT NULL,
	ruc_id INTEGER NOT NULL REFERENCES ruc_informacion_basica(id),
	canal TEXT,
	adm_sac TEXT,
	cantidad_trabajadores INTEGER,
	resultado TEXT NOT NULL,
	fecha TIMESTAMP NOT NULL,
	UNIQUE (corrida, ruc_id)
);`

type DatabaseService struct {
	db *sql.DB
}

func NewDatabaseService(connectionString string) (*DatabaseService, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	return &DatabaseService{db: db}, nil
}

func (ds *DatabaseService) Close() error {
	return ds.db.Close()
}

// EnsureSchema crea las tablas del historial si no existen
func (ds *DatabaseService) EnsureSchema(ctx context.Context) error {
	if _, err := ds.db.ExecContext(ctx, esquema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// InsertValidaciones guarda una corrida completa en una sola transacción y
// devuelve su identificador. Las filas con RUC inválido se omiten.
func (ds *DatabaseService) InsertValidaciones(ctx context.Context, filas []models.FilaValidacion, fecha time.Time) (uuid.UUID, error) {
	corrida := uuid.New()

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, f := range filas {
		ruc := strings.TrimSpace(f.RUC)
		if !utils.IsValidRUC(ruc) {
			continue
		}
		rucID, err := ds.upsertRUC(ctx, tx, ruc, f)
		if err != nil {
			return uuid.Nil, fmt.Errorf("error inserting RUC %s: %w", ruc, err)
		}
		if err := ds.insertValidacion(ctx, tx, corrida, rucID, f, fecha); err != nil {
			return uuid.Nil, fmt.Errorf("error inserting validacion %s: %w", ruc, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return corrida, nil
}

// ErrSinHistorial indica que el RUC no tiene validaciones guardadas
var ErrSinHistorial = errors.New("el RUC no tiene validaciones anteriores")

// UltimoResultado devuelve el RESULTADO más reciente registrado para el RUC
func (ds *DatabaseService) UltimoResultado(ctx context.Context, ruc string) (string, time.Time, error) {
	var resultado string
	var fecha time.Time
	err := ds.db.QueryRowContext(ctx, `
		SELECT v.resultado, v.fecha
		FROM validacion_leads v
		JOIN ruc_informacion_basica r ON r.id = v.ruc_id
		WHERE r.ruc = $1
		ORDER BY v.fecha DESC
		LIMIT 1`, ruc).Scan(&resultado, &fecha)
	if errors.Is(err, sql.ErrNoRows) {
		return "", time.Time{}, ErrSinHistorial
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error consultando historial de %s: %w", ruc, err)
	}
	return resultado, fecha, nil
}

func (ds *DatabaseService) upsertRUC(ctx context.Context, tx *sql.Tx, ruc string, f models.FilaValidacion) (int64, error) {
	// Las filas sin ficha SUNAT no pisan datos guardados en corridas anteriores
	query := `
	INSERT INTO ruc_informacion_basica (
		ruc, razon_social, tipo_contribuyente, estado, condicion
	) VALUES (
		$1, $2, $3, $4, $5
	)
	ON CONFLICT (ruc) DO UPDATE SET
		razon_social = COALESCE(EXCLUDED.razon_social, ruc_informacion_basica.razon_social),
		tipo_contribuyente = COALESCE(EXCLUDED.tipo_contribuyente, ruc_informacion_basica.tipo_contribuyente),
		estado = COALESCE(EXCLUDED.estado, ruc_informacion_basica.estado),
		condicion = COALESCE(EXCLUDED.condicion, ruc_informacion_basica.condicion),
		updated_at = CURRENT_TIMESTAMP
	RETURNING id`

	var rucID int64
	err := tx.QueryRowContext(ctx, query,
		ruc,
		nullString(f.RazonSocial),
		nullString(f.TipoContribuyente),
		nullString(f.Estado),
		nullString(f.Condicion),
	).Scan(&rucID)

	return rucID, err
}

func (ds *DatabaseService) insertValidacion(ctx context.Context, tx *sql.Tx, corrida uuid.UUID, rucID int64, f models.FilaValidacion, fecha time.Time) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO validacion_leads (
			corrida, ruc_id, canal, adm_sac, cantidad_trabajadores, resultado, fecha
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (corrida, ruc_id) DO NOTHING`,
		corrida, rucID,
		nullString(f.Canal),
		nullString(f.AdmSAC),
		cantidad(f.CantidadTrabajadores),
		f.Resultado,
		fecha)
	return err
}

// Helper functions
func nullString(s string) interface{} {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "No hay información" {
		return nil
	}
	return s
}

func cantidad(s string) interface{} {
	if nullString(s) == nil {
		return nil
	}
	v := utils.Coerce(s)
	if !utils.EsNumero(v) {
		return nil
	}
	return int64(utils.ANumero(v))
}
