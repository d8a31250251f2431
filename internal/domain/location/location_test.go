package location_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/domain/location"
)

func TestParse_Kinds(t *testing.T) {
	cases := []struct {
		in   string
		kind location.Kind
	}{
		{"", location.KindEmpty},
		{"   ", location.KindEmpty},
		{"Medellín", location.KindRaw},
		{"Calle 10 # 20-30", location.KindRaw},
		{`{"codigo":"05001","nombre":"Medellín"}`, location.KindJSON},
		{`"{\"nombre\":\"Cali\"}"`, location.KindJSON},
		{"codigo: 05001, nombre: Medellín", location.KindLegacy},
		{"{codigo=05001; nombre=Medellín}", location.KindLegacy},
		{"{no es json", location.KindRaw},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, location.Parse(c.in).Kind, "entrada %q", c.in)
	}
}

func TestField(t *testing.T) {
	js := location.Parse(`{"Codigo": 5001, "nombre": "Medellín", "activo": true}`)
	assert.Equal(t, "5001", js.Field("codigo"))
	assert.Equal(t, "Medellín", js.Field("NOMBRE"))
	assert.Equal(t, "true", js.Field("activo"))
	assert.Equal(t, "", js.Field("departamento"))

	legacy := location.Parse("[codigo] => 05001\n[nombre] => Medellín")
	assert.Equal(t, location.KindLegacy, legacy.Kind)
	assert.Equal(t, "05001", legacy.Field("codigo"))
	assert.Equal(t, "Medellín", legacy.Field("nombre"))

	raw := location.Parse("Bogotá D.C.")
	assert.Equal(t, "Bogotá D.C.", raw.Field("nombre"))

	assert.Equal(t, "Medellín", js.FirstField("ciudad", "nombre"))
}

func TestParse_DoubleEncodedString(t *testing.T) {
	v := location.Parse(`"Cali"`)
	assert.Equal(t, location.KindRaw, v.Kind)
	assert.Equal(t, "Cali", v.Field("nombre"))
}

func TestCleanDataValue_IdempotentOnCleanString(t *testing.T) {
	for _, s := range []string{"Medellín", "Calle 10 # 20-30", "05001", "Bogotá D.C."} {
		once := location.CleanDataValue(s, "nombre")
		twice := location.CleanDataValue(once, "nombre")
		assert.Equal(t, s, once)
		assert.Equal(t, once, twice)
	}

	extracted := location.CleanDataValue(`{"nombre":"Medellín"}`, "nombre")
	assert.Equal(t, "Medellín", extracted)
	assert.Equal(t, extracted, location.CleanDataValue(extracted, "nombre"))
}

func TestScanAndValue(t *testing.T) {
	var v location.Value
	require.NoError(t, v.Scan([]byte(`{"nombre":"Pasto"}`)))
	assert.Equal(t, location.KindJSON, v.Kind)
	assert.Equal(t, "Pasto", v.Field("nombre"))

	stored, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, `{"nombre":"Pasto"}`, stored)

	require.NoError(t, v.Scan(nil))
	assert.True(t, v.IsZero())
	stored, err = v.Value()
	require.NoError(t, err)
	assert.Nil(t, stored)

	assert.Error(t, v.Scan(42))
}
