package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ThirdPartyRepository = (*ThirdPartyRepo)(nil)

// ThirdPartyRepo lectura de terceros.
type ThirdPartyRepo struct {
	q Querier
}

// NewThirdPartyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewThirdPartyRepository(q Querier) *ThirdPartyRepo {
	return &ThirdPartyRepo{q: q}
}

// GetByID obtiene un tercero. Dirección, departamento y ciudad se resuelven
// a location.Value al escanear (texto, JSON o notación heredada).
func (r *ThirdPartyRepo) GetByID(ctx context.Context, id int64) (*entity.ThirdParty, error) {
	const q = `
		SELECT id, tipo_identificacion, numero_identificacion, COALESCE(digito_verificacion, ''),
		       COALESCE(razon_social, ''), COALESCE(primer_nombre, ''), COALESCE(segundo_nombre, ''),
		       COALESCE(primer_apellido, ''), COALESCE(segundo_apellido, ''), COALESCE(tipo_persona, ''),
		       COALESCE(responsable_iva, false), COALESCE(regimen_simple, false),
		       COALESCE(email, ''), COALESCE(telefono, ''),
		       direccion, departamento, ciudad, created_at, updated_at
		FROM terceros WHERE id = $1`
	var t entity.ThirdParty
	err := r.q.QueryRow(ctx, q, id).Scan(
		&t.ID, &t.IdentificationType, &t.IdentificationNumber, &t.VerificationDigit,
		&t.BusinessName, &t.FirstName, &t.SecondName,
		&t.FirstSurname, &t.SecondSurname, &t.PersonType,
		&t.TaxResponsible, &t.SimpleRegime,
		&t.Email, &t.Phone,
		&t.Address, &t.Department, &t.City, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tercero: %w", err)
	}
	return &t, nil
}
