package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/konstantinfoerster/scryfall-go/internal/postgres"
	"github.com/konstantinfoerster/scryfall-go/internal/scryfall"
	"github.com/shopspring/decimal"
)

var ErrEntryNotFound = errors.New("entry not found")

type PostgresCatalogDao struct {
	db *postgres.DBConnection
}

func NewCatalogDao(db *postgres.DBConnection) *PostgresCatalogDao {
	return &PostgresCatalogDao{
		db: db,
	}
}

func (d *PostgresCatalogDao) withTransaction(ctx context.Context, f func(txDao *PostgresCatalogDao) error) error {
	// create a new dao instance with a transactional connection
	return d.db.WithTransaction(ctx, func(txConn *postgres.DBConnection) error {
		return f(NewCatalogDao(txConn))
	})
}

// UpsertSet creates the set or updates all columns of an existing set with the same code.
func (d *PostgresCatalogDao) UpsertSet(ctx context.Context, s scryfall.Set) error {
	query := `
		INSERT INTO
			card_set (
				code, name, type, released, card_count, digital, block_code, block, parent_set_code, icon_svg_uri
			)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name, type = EXCLUDED.type, released = EXCLUDED.released,
			card_count = EXCLUDED.card_count, digital = EXCLUDED.digital, block_code = EXCLUDED.block_code,
			block = EXCLUDED.block, parent_set_code = EXCLUDED.parent_set_code, icon_svg_uri = EXCLUDED.icon_svg_uri`

	_, err := d.db.Conn.Exec(ctx, query, s.Code, s.Name, string(s.Type), toDate(s.ReleasedAt), s.CardCount,
		s.Digital, s.BlockCode, s.Block, s.ParentSetCode, s.IconSVGURI)
	if err != nil {
		return fmt.Errorf("failed to upsert set %s %w", s.Code, err)
	}

	return nil
}

// UpsertCards stores all cards with their faces and legalities in one transaction.
// Faces and legalities of existing cards are replaced.
func (d *PostgresCatalogDao) UpsertCards(ctx context.Context, cards []scryfall.Card) error {
	if len(cards) == 0 {
		return nil
	}

	return d.withTransaction(ctx, func(txDao *PostgresCatalogDao) error {
		batch := &pgx.Batch{}
		for _, c := range cards {
			queueCard(batch, c)
		}

		br := txDao.db.Conn.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()

				return fmt.Errorf("failed to upsert cards, statement %d %w", i, err)
			}
		}

		return br.Close()
	})
}

func queueCard(batch *pgx.Batch, c scryfall.Card) {
	batch.Queue(`
		INSERT INTO
			card (
				id, oracle_id, name, printed_name, lang, layout, mana_cost, cmc, type_line, oracle_text, rarity,
				card_set_code, collector_number, released, image_uri, price_usd, price_eur
			)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16::numeric, $17::numeric
		)
		ON CONFLICT (id) DO UPDATE SET
			oracle_id = EXCLUDED.oracle_id, name = EXCLUDED.name, printed_name = EXCLUDED.printed_name,
			lang = EXCLUDED.lang, layout = EXCLUDED.layout, mana_cost = EXCLUDED.mana_cost, cmc = EXCLUDED.cmc,
			type_line = EXCLUDED.type_line, oracle_text = EXCLUDED.oracle_text, rarity = EXCLUDED.rarity,
			card_set_code = EXCLUDED.card_set_code, collector_number = EXCLUDED.collector_number,
			released = EXCLUDED.released, image_uri = EXCLUDED.image_uri, price_usd = EXCLUDED.price_usd,
			price_eur = EXCLUDED.price_eur`,
		c.ID, c.OracleID, c.Name, c.PrintedName, string(c.Lang), string(c.Layout), c.ManaCost, c.CMC, c.TypeLine,
		c.OracleText, string(c.Rarity), c.SetCode, c.CollectorNumber, toDate(c.ReleasedAt),
		c.ImageURL(scryfall.ImageLarge), toPrice(c.Prices, scryfall.PriceUSD), toPrice(c.Prices, scryfall.PriceEUR))

	batch.Queue(`DELETE FROM card_face WHERE card_id = $1`, c.ID)
	for pos, f := range c.Faces {
		batch.Queue(`
			INSERT INTO
				card_face (card_id, position, name, mana_cost, type_line, oracle_text, image_uri)
			VALUES
				($1, $2, $3, $4, $5, $6, $7)`,
			c.ID, pos, f.Name, f.ManaCost, f.TypeLine, f.OracleText, f.ImageURIs.Large())
	}

	batch.Queue(`DELETE FROM card_legality WHERE card_id = $1`, c.ID)
	for format, legality := range c.Legalities {
		batch.Queue(`INSERT INTO card_legality (card_id, format, legality) VALUES ($1, $2, $3)`,
			c.ID, string(format), string(legality))
	}
}

// CountSets Returns the amount of all sets.
func (d *PostgresCatalogDao) CountSets(ctx context.Context) (int, error) {
	row := d.db.Conn.QueryRow(ctx, "SELECT count(code) FROM card_set")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to execute set count %w", err)
	}

	return count, nil
}

// CountCards Returns the amount of all card printings.
func (d *PostgresCatalogDao) CountCards(ctx context.Context) (int, error) {
	row := d.db.Conn.QueryRow(ctx, "SELECT count(id) FROM card")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to execute card count %w", err)
	}

	return count, nil
}

// FindCard returns the stored card with its faces and legalities or ErrEntryNotFound.
func (d *PostgresCatalogDao) FindCard(ctx context.Context, id string) (*scryfall.Card, error) {
	query := `
		SELECT
			id, oracle_id, name, printed_name, lang, layout, mana_cost, cmc::float8, type_line, oracle_text, rarity,
			card_set_code, collector_number, released, image_uri,
			COALESCE(price_usd::text, ''), COALESCE(price_eur::text, '')
		FROM
			card
		WHERE
			id = $1`

	var c scryfall.Card
	var lang, layout, rarity, imageURI, usd, eur string
	var released pgtype.Date
	err := d.db.Conn.QueryRow(ctx, query, id).Scan(&c.ID, &c.OracleID, &c.Name, &c.PrintedName, &lang, &layout,
		&c.ManaCost, &c.CMC, &c.TypeLine, &c.OracleText, &rarity, &c.SetCode, &c.CollectorNumber, &released,
		&imageURI, &usd, &eur)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}

		return nil, fmt.Errorf("failed to select card by id %s %w", id, err)
	}

	c.Lang = scryfall.ParseLanguage(lang)
	c.Layout = scryfall.ParseLayout(layout)
	c.Rarity = scryfall.ParseRarity(rarity)
	c.ReleasedAt = fromDate(released)
	c.ImageURIs = scryfall.ImageURIs{}
	if imageURI != "" {
		c.ImageURIs[scryfall.ImageLarge] = imageURI
	}
	c.Prices = scryfall.Prices{}
	addPrice(c.Prices, scryfall.PriceUSD, usd)
	addPrice(c.Prices, scryfall.PriceEUR, eur)

	if c.Faces, err = d.findFaces(ctx, id); err != nil {
		return nil, err
	}
	if c.Legalities, err = d.findLegalities(ctx, id); err != nil {
		return nil, err
	}

	return &c, nil
}

func (d *PostgresCatalogDao) findFaces(ctx context.Context, cardID string) ([]scryfall.CardFace, error) {
	query := `
		SELECT
			name, mana_cost, type_line, oracle_text, image_uri
		FROM
			card_face
		WHERE
			card_id = $1
		ORDER BY
			position`

	rows, err := d.db.Conn.Query(ctx, query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute card face select %w", err)
	}
	defer rows.Close()

	result := make([]scryfall.CardFace, 0)
	for rows.Next() {
		var f scryfall.CardFace
		var imageURI string
		if err := rows.Scan(&f.Name, &f.ManaCost, &f.TypeLine, &f.OracleText, &imageURI); err != nil {
			return nil, fmt.Errorf("failed to scan after card face select %w", err)
		}
		f.ImageURIs = scryfall.ImageURIs{}
		if imageURI != "" {
			f.ImageURIs[scryfall.ImageLarge] = imageURI
		}
		result = append(result, f)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read card face result %w", rows.Err())
	}

	return result, nil
}

func (d *PostgresCatalogDao) findLegalities(ctx context.Context, cardID string) (scryfall.Legalities, error) {
	rows, err := d.db.Conn.Query(ctx, "SELECT format, legality FROM card_legality WHERE card_id = $1", cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute card legality select %w", err)
	}
	defer rows.Close()

	result := make(scryfall.Legalities)
	for rows.Next() {
		var format, legality string
		if err := rows.Scan(&format, &legality); err != nil {
			return nil, fmt.Errorf("failed to scan after card legality select %w", err)
		}
		result[scryfall.Format(format)] = scryfall.ParseLegality(legality)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("failed to read card legality result %w", rows.Err())
	}

	return result, nil
}

func toDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Status: pgtype.Null}
	}

	return pgtype.Date{Time: t, Status: pgtype.Present}
}

func fromDate(d pgtype.Date) time.Time {
	if d.Status != pgtype.Present {
		return time.Time{}
	}

	return d.Time
}

// toPrice returns the price as numeric text or nil if no price is known.
func toPrice(p scryfall.Prices, t scryfall.PriceType) *string {
	v, ok := p[t]
	if !ok {
		return nil
	}
	s := v.String()

	return &s
}

func addPrice(p scryfall.Prices, t scryfall.PriceType, raw string) {
	if raw == "" {
		return
	}
	if v, err := decimal.NewFromString(raw); err == nil {
		p[t] = v
	}
}
