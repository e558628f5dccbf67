package models

// AliasColumnas lista, por campo lógico, los nombres de cabecera aceptados
// en orden de prioridad.
type AliasColumnas struct {
	RUCBuzon     []string `yaml:"ruc_buzon"`
	Canal        []string `yaml:"canal"`
	RUCClientes  []string `yaml:"ruc_clientes"`
	AdmSAC       []string `yaml:"adm_sac"`
	RUCPrincipal []string `yaml:"ruc_principal"`
	RazonSocial  []string `yaml:"razon_social"`
	Tipo         []string `yaml:"tipo_contribuyente"`
	Estado       []string `yaml:"estado"`
	Condicion    []string `yaml:"condicion"`
	Periodo      []string `yaml:"periodo"`
	Trabajadores []string `yaml:"trabajadores"`
	RUCTrab      []string `yaml:"ruc_trabajadores"`
}

// DefaultAliasColumnas devuelve los alias usados por los archivos del área
func DefaultAliasColumnas() AliasColumnas {
	return AliasColumnas{
		RUCBuzon:     []string{"RUC"},
		Canal:        []string{"CANAL", "Canal", "canal"},
		RUCClientes:  []string{"Ruc"},
		AdmSAC:       []string{"Adm SAC ACT", "Adm SAC", "Adm_SAC", "ADM SAC ACT"},
		RUCPrincipal: []string{CampoNumeroRUC, "RUC", "Ruc"},
		RazonSocial:  []string{CampoRazonSocial, "Razon Social", "Razón_social"},
		Tipo:         []string{"Tipo Contribuyente", "Tipo de Contribuyente", "TipoContribuyente"},
		Estado:       []string{"Estado del Contribuyente", "Estado del Contribuyente ", "Estado"},
		Condicion:    []string{"Condición del Contribuyente", "Condicion del Contribuyente", "Condición"},
		Periodo:      []string{"Período", "Periodo", "PERIODO"},
		Trabajadores: []string{"N° de Trabajadores", "N° Trabajadores", "Numero de Trabajadores", "N de Trabajadores", "Nº de Trabajadores", "Nro. Trabajadores", "Trabajadores"},
		RUCTrab:      []string{"RUC", "Ruc", "Ruc.", "ruc"},
	}
}

// ConDefaults completa los campos vacíos con los alias por defecto
func (a AliasColumnas) ConDefaults() AliasColumnas {
	d := DefaultAliasColumnas()
	completar := func(v *[]string, def []string) {
		if len(*v) == 0 {
			*v = def
		}
	}
	completar(&a.RUCBuzon, d.RUCBuzon)
	completar(&a.Canal, d.Canal)
	completar(&a.RUCClientes, d.RUCClientes)
	completar(&a.AdmSAC, d.AdmSAC)
	completar(&a.RUCPrincipal, d.RUCPrincipal)
	completar(&a.RazonSocial, d.RazonSocial)
	completar(&a.Tipo, d.Tipo)
	completar(&a.Estado, d.Estado)
	completar(&a.Condicion, d.Condicion)
	completar(&a.Periodo, d.Periodo)
	completar(&a.Trabajadores, d.Trabajadores)
	completar(&a.RUCTrab, d.RUCTrab)
	return a
}
