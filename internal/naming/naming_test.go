package naming

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"businesscase/internal/domain"
)

func TestSafeName(t *testing.T) {
	got := SafeName("Bank/Konto? <test>")
	assert.Equal(t, "Bank_Konto___test_", got)
	assert.False(t, strings.ContainsAny(got, reserved))

	assert.Equal(t, "Loenkoersel_aar_Oekonomi_Aabning", SafeName("Lønkørsel år Økonomi Åbning"))
	assert.Equal(t, "aeblemost_Aeble", SafeName("æblemost Æble"))
	assert.Equal(t, "Cafe_creme", SafeName("  Café crème "))
	assert.Equal(t, "a_b", SafeName("a\tb"))
	assert.Equal(t, "C__x_y_z", SafeName(`C:\x|y"z`))
}

func TestBaseFallsBack(t *testing.T) {
	assert.Equal(t, FallbackName, Base(""))
	assert.Equal(t, FallbackName, Base("   "))
	assert.Equal(t, FallbackName, Base("///"))
	assert.Equal(t, "Onboarding", Base("Onboarding"))
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "Onboarding_BC_20240307_0905.xlsx", FileName("Onboarding", domain.ArtifactSpreadsheet, at))
	assert.Equal(t, "Onboarding_PDD_RTS_20240307_0905.docx", FileName("Onboarding", domain.ArtifactProcessDoc, at))
	assert.Equal(t, "Ny_proces_Ledelsesbeskrivelse_20240307_0905.docx", FileName("Ny proces", domain.ArtifactLeadership, at))
}
