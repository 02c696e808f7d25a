package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/maltedev/seminovas-importer/internal/catalog"
	"github.com/maltedev/seminovas-importer/internal/models"
	"github.com/maltedev/seminovas-importer/internal/novas"
)

var ErrNotFound = errors.New("record not found")

var (
	_ catalog.Store = (*Store)(nil)
	_ novas.Store   = (*Store)(nil)
)

// Store is the Postgres content store. Every catalog write also queues an
// outbox event in the same transaction.
type Store struct {
	db     *DB
	outbox *OutboxRepository
}

func NewStore(db *DB, outbox *OutboxRepository) *Store {
	return &Store{db: db, outbox: outbox}
}

const seminovaColumns = `
	id, ativo, placa, marca, nome, ano_fabricacao, ano_modelo, quilometragem,
	combustivel, cor, categoria, preco, local, imagem, galeria, caracteristicas, adicionais`

func (s *Store) FindSeminovaByID(ctx context.Context, id string) (*models.MotoSeminova, error) {
	var rec models.MotoSeminova
	var galeria, caracteristicas, adicionais []byte

	err := s.db.pool.QueryRow(ctx,
		`SELECT `+seminovaColumns+` FROM motos_seminovas WHERE id = $1`, id,
	).Scan(
		&rec.ID, &rec.Ativo, &rec.Placa, &rec.Marca, &rec.Nome, &rec.AnoFabricacao, &rec.AnoModelo,
		&rec.Quilometragem, &rec.Combustivel, &rec.Cor, &rec.Categoria, &rec.Preco, &rec.Local,
		&rec.Imagem, &galeria, &caracteristicas, &adicionais,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get seminova: %w", err)
	}

	if err := unmarshalColumns(
		column{"galeria", galeria, &rec.Galeria},
		column{"caracteristicas", caracteristicas, &rec.Caracteristicas},
		column{"adicionais", adicionais, &rec.Adicionais},
	); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (s *Store) CreateSeminova(ctx context.Context, rec *models.MotoSeminova) error {
	galeria, caracteristicas, adicionais, err := seminovaJSON(rec)
	if err != nil {
		return err
	}

	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO motos_seminovas (` + seminovaColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

		_, err := tx.Exec(ctx, query,
			rec.ID, rec.Ativo, rec.Placa, rec.Marca, rec.Nome, rec.AnoFabricacao, rec.AnoModelo,
			rec.Quilometragem, string(rec.Combustivel), rec.Cor, string(rec.Categoria), rec.Preco, rec.Local,
			rec.Imagem, galeria, caracteristicas, adicionais,
		)
		if err != nil {
			return fmt.Errorf("failed to insert seminova: %w", err)
		}

		return s.queueEvent(ctx, tx, AggregateSeminova, rec.ID, EventSeminovaCreated, rec)
	})
}

// UpdateSeminova overwrites every column of the record stored under id.
func (s *Store) UpdateSeminova(ctx context.Context, id string, rec *models.MotoSeminova) error {
	galeria, caracteristicas, adicionais, err := seminovaJSON(rec)
	if err != nil {
		return err
	}

	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE motos_seminovas SET
				ativo = $2, placa = $3, marca = $4, nome = $5, ano_fabricacao = $6, ano_modelo = $7,
				quilometragem = $8, combustivel = $9, cor = $10, categoria = $11, preco = $12,
				local = $13, imagem = $14, galeria = $15, caracteristicas = $16, adicionais = $17,
				updated_at = now()
			WHERE id = $1`

		tag, err := tx.Exec(ctx, query,
			id, rec.Ativo, rec.Placa, rec.Marca, rec.Nome, rec.AnoFabricacao, rec.AnoModelo,
			rec.Quilometragem, string(rec.Combustivel), rec.Cor, string(rec.Categoria), rec.Preco,
			rec.Local, rec.Imagem, galeria, caracteristicas, adicionais,
		)
		if err != nil {
			return fmt.Errorf("failed to update seminova: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("seminova %s: %w", id, ErrNotFound)
		}

		return s.queueEvent(ctx, tx, AggregateSeminova, id, EventSeminovaUpdated, rec)
	})
}

// FindDadosInstitucionais returns nil, nil when the global was never saved.
func (s *Store) FindDadosInstitucionais(ctx context.Context) (*models.DadosInstitucionais, error) {
	var data []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT data FROM globals WHERE slug = $1`, models.GlobalDadosInstitucionais,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global %s: %w", models.GlobalDadosInstitucionais, err)
	}

	var dados models.DadosInstitucionais
	if err := json.Unmarshal(data, &dados); err != nil {
		return nil, fmt.Errorf("failed to decode global %s: %w", models.GlobalDadosInstitucionais, err)
	}
	return &dados, nil
}

// SaveDadosInstitucionais replaces the settings global.
func (s *Store) SaveDadosInstitucionais(ctx context.Context, dados *models.DadosInstitucionais) error {
	data, err := json.Marshal(dados)
	if err != nil {
		return fmt.Errorf("failed to encode global %s: %w", models.GlobalDadosInstitucionais, err)
	}

	_, err = s.db.pool.Exec(ctx, `
		INSERT INTO globals (slug, data) VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		models.GlobalDadosInstitucionais, data)
	if err != nil {
		return fmt.Errorf("failed to save global %s: %w", models.GlobalDadosInstitucionais, err)
	}
	return nil
}

// CreateMidia copies the staged file into the midia table. The caller owns
// the file and removes it afterwards.
func (s *Store) CreateMidia(ctx context.Context, alt string, filePath string) (int64, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to read staged file: %w", err)
	}

	filename := filepath.Base(filePath)
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	var id int64
	err = s.db.pool.QueryRow(ctx, `
		INSERT INTO midia (alt, filename, mime_type, filesize, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		alt, filename, mimeType, len(data), data,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert midia: %w", err)
	}
	return id, nil
}

// FindMidia returns the asset metadata without its bytes.
func (s *Store) FindMidia(ctx context.Context, id int64) (*models.Midia, error) {
	var m models.Midia
	err := s.db.pool.QueryRow(ctx,
		`SELECT id, alt, filename, mime_type FROM midia WHERE id = $1`, id,
	).Scan(&m.ID, &m.Alt, &m.Filename, &m.MimeType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get midia: %w", err)
	}
	return &m, nil
}

func (s *Store) FindMotoNovaByID(ctx context.Context, id string) (*models.MotoNova, error) {
	var (
		rec     models.MotoNova
		modelos []byte
	)

	err := s.db.pool.QueryRow(ctx,
		`SELECT id, nome, ativo, modelos FROM motos_novas WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Nome, &rec.Ativo, &modelos)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get moto nova: %w", err)
	}

	if err := unmarshalColumns(column{"modelos", modelos, &rec.Modelos}); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) CreateMotoNova(ctx context.Context, rec *models.MotoNova) error {
	modelos, err := marshalColumn("modelos", rec.Modelos)
	if err != nil {
		return err
	}

	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO motos_novas (id, nome, ativo, modelos) VALUES ($1, $2, $3, $4)`,
			rec.ID, rec.Nome, rec.Ativo, modelos)
		if err != nil {
			return fmt.Errorf("failed to insert moto nova: %w", err)
		}
		return s.queueEvent(ctx, tx, AggregateMotoNova, rec.ID, EventMotoNovaCreated, rec)
	})
}

func (s *Store) UpdateMotoNova(ctx context.Context, id string, rec *models.MotoNova) error {
	modelos, err := marshalColumn("modelos", rec.Modelos)
	if err != nil {
		return err
	}

	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE motos_novas SET nome = $2, ativo = $3, modelos = $4, updated_at = now()
			WHERE id = $1`,
			id, rec.Nome, rec.Ativo, modelos)
		if err != nil {
			return fmt.Errorf("failed to update moto nova: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("moto nova %s: %w", id, ErrNotFound)
		}
		return s.queueEvent(ctx, tx, AggregateMotoNova, id, EventMotoNovaUpdated, rec)
	})
}

func (s *Store) queueEvent(ctx context.Context, tx pgx.Tx, aggregateType, aggregateID, eventType string, payload any) error {
	event, err := NewOutboxEvent(aggregateType, aggregateID, eventType, payload)
	if err != nil {
		return err
	}
	return s.outbox.InsertWithTx(ctx, tx, event)
}

func seminovaJSON(rec *models.MotoSeminova) (galeria, caracteristicas, adicionais []byte, err error) {
	if galeria, err = marshalColumn("galeria", nonNil(rec.Galeria)); err != nil {
		return
	}
	if caracteristicas, err = marshalColumn("caracteristicas", nonNil(rec.Caracteristicas)); err != nil {
		return
	}
	adicionais, err = marshalColumn("adicionais", nonNil(rec.Adicionais))
	return
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func marshalColumn(name string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return data, nil
}

type column struct {
	name string
	data []byte
	dst  any
}

func unmarshalColumns(cols ...column) error {
	for _, c := range cols {
		if len(c.data) == 0 {
			continue
		}
		if err := json.Unmarshal(c.data, c.dst); err != nil {
			return fmt.Errorf("failed to decode %s: %w", c.name, err)
		}
	}
	return nil
}
