package domain

import (
	"fmt"
	"strings"
)

type InstrumentType string

const (
	InstrumentAcciones      InstrumentType = "ACCIONES"
	InstrumentBonosPublicos InstrumentType = "BONOS_PUBLICOS"
	InstrumentCedears       InstrumentType = "CEDEARS"
	InstrumentBonosCorp     InstrumentType = "BONOS_CORP"
	InstrumentFCI           InstrumentType = "FCI"
	InstrumentLetras        InstrumentType = "LETRAS"
	InstrumentCaucion       InstrumentType = "CAUCION"
)

func ParseInstrumentType(name string) (InstrumentType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ACCIONES":
		return InstrumentAcciones, nil
	case "BONOS", "BONOS_PUBLICOS":
		return InstrumentBonosPublicos, nil
	case "CEDEARS":
		return InstrumentCedears, nil
	case "CORP", "BONOS_CORP":
		return InstrumentBonosCorp, nil
	case "FCI":
		return InstrumentFCI, nil
	case "LETRAS":
		return InstrumentLetras, nil
	case "REPO", "CAUCION":
		return InstrumentCaucion, nil
	default:
		return "", fmt.Errorf("%w: instrument type %q", ErrUnknownEnumValue, name)
	}
}

func (t InstrumentType) Valid() bool {
	switch t {
	case InstrumentAcciones, InstrumentBonosPublicos, InstrumentCedears,
		InstrumentBonosCorp, InstrumentFCI, InstrumentLetras, InstrumentCaucion:
		return true
	default:
		return false
	}
}

func (t InstrumentType) Wire() string {
	return string(t)
}

type InstrumentSubType string

const (
	SubTypeNacionalesARS InstrumentSubType = "NACIONALES_ARS"
	SubTypeNacionalesUSD InstrumentSubType = "NACIONALES_USD"
	SubTypeCER           InstrumentSubType = "CER"
	SubTypeETF           InstrumentSubType = "ETF"
	SubTypeTasaFija      InstrumentSubType = "TASA_FIJA"
	SubTypeGeneral       InstrumentSubType = "GENERAL"
	SubTypeLideres       InstrumentSubType = "LIDERES"
	SubTypeNuevos        InstrumentSubType = "NUEVOS"
	SubTypeProvinciales  InstrumentSubType = "PROVINCIALES"
	SubTypeTop           InstrumentSubType = "TOP"
	SubTypeNone          InstrumentSubType = ""
)

func ParseInstrumentSubType(name string) (InstrumentSubType, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ARS", "NACIONALES_ARS":
		return SubTypeNacionalesARS, nil
	case "USD", "NACIONALES_USD":
		return SubTypeNacionalesUSD, nil
	case "CER":
		return SubTypeCER, nil
	case "ETF":
		return SubTypeETF, nil
	case "FIXED", "TASA_FIJA":
		return SubTypeTasaFija, nil
	case "GENERAL":
		return SubTypeGeneral, nil
	case "LIDERES":
		return SubTypeLideres, nil
	case "NEW", "NUEVOS":
		return SubTypeNuevos, nil
	case "PROV", "PROVINCIALES":
		return SubTypeProvinciales, nil
	case "TOP":
		return SubTypeTop, nil
	case "NONE", "":
		return SubTypeNone, nil
	default:
		return "", fmt.Errorf("%w: instrument subtype %q", ErrUnknownEnumValue, name)
	}
}

func (t InstrumentSubType) Valid() bool {
	switch t {
	case SubTypeNacionalesARS, SubTypeNacionalesUSD, SubTypeCER, SubTypeETF,
		SubTypeTasaFija, SubTypeGeneral, SubTypeLideres, SubTypeNuevos,
		SubTypeProvinciales, SubTypeTop, SubTypeNone:
		return true
	default:
		return false
	}
}

func (t InstrumentSubType) Wire() string {
	return string(t)
}
