package model

import "strings"

// sectorTable maps each listed symbol to its sector. Securities missing
// from the quotation board's sector column fall back to this table.
var sectorTable = map[string]string{}

func init() {
	for sector, symbols := range map[string][]string{
		"Banque":           {"SGBCI", "BOA", "ECOBANK", "SIB", "NSIA", "BICI", "BDM", "CORIS"},
		"Agro-industrie":   {"SOGB", "SAPH", "PALC", "SIFCA", "SICOR", "SUCRIVOIRE"},
		"Distribution":     {"CFAO", "BERNABE", "VIVO", "TOTAL"},
		"Services publics": {"SODECI", "CIE", "SONATEL", "ONATEL"},
		"Industrie":        {"NESTLE", "SOLIBRA", "SMB", "UNIWAX", "FILTISAC", "AIR"},
		"Transport":        {"BOLLORE", "MOVIS", "SETAO"},
	} {
		for _, s := range symbols {
			sectorTable[s] = sector
		}
	}
}

// SectorOf classifies a symbol. Market indices group under "Indice",
// anything unknown under "Autres".
func SectorOf(symbol string) string {
	if strings.HasPrefix(symbol, "BRVM") {
		return "Indice"
	}
	if sector, ok := sectorTable[symbol]; ok {
		return sector
	}
	return "Autres"
}
