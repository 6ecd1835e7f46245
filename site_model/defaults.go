package site_model

// DefaultContentTypes returns the standard content type dictionary with
// milestone variants expanded.
func DefaultContentTypes() map[string]ContentType {
	base := map[string]ContentType{
		"model":                       {Acronym: "model", Formats: []string{"pdbx", "pdb", "pdbml"}},
		"model-aux":                   {Acronym: "model-aux", Formats: []string{"pdbx"}},
		"structure-factors":           {Acronym: "sf", Formats: []string{"pdbx", "mtz", "txt"}},
		"nmr-chemical-shifts":         {Acronym: "cs", Formats: []string{"pdbx", "nmr-star", "txt"}},
		"nmr-chemical-shifts-auth":    {Acronym: "cs-auth", Formats: []string{"pdbx", "nmr-star"}},
		"nmr-restraints":              {Acronym: "mr", Formats: []string{"pdbx", "nmr-star", "mr", "txt"}},
		"nmr-data-str":                {Acronym: "nmr-data-str", Formats: []string{"pdbx", "nmr-star"}},
		"nmr-data-nef":                {Acronym: "nmr-data-nef", Formats: []string{"pdbx", "nmr-star"}},
		"nmrif":                       {Acronym: "nmrif", Formats: []string{"pdbx"}},
		"em-volume":                   {Acronym: "em-volume", Formats: []string{"map", "ccp4"}},
		"em-mask":                     {Acronym: "em-mask", Formats: []string{"map", "ccp4"}},
		"map-2fofc":                   {Acronym: "map-2fofc", Formats: []string{"map"}},
		"map-fofc":                    {Acronym: "map-fofc", Formats: []string{"map"}},
		"omit-map-2fofc":              {Acronym: "omit-map-2fofc", Formats: []string{"map"}},
		"omit-map-fofc":               {Acronym: "omit-map-fofc", Formats: []string{"map"}},
		"seq-data-stats":              {Acronym: "seq-data-stats", Formats: []string{"pic", "json"}},
		"seq-align-data":              {Acronym: "seq-align-data", Formats: []string{"pic"}},
		"seq-assign":                  {Acronym: "seq-assign", Formats: []string{"pdbx"}},
		"seqdb-match":                 {Acronym: "seqdb-match", Formats: []string{"pdbx", "xml"}},
		"blast-match":                 {Acronym: "blast-match", Formats: []string{"xml"}},
		"assembly-assign":             {Acronym: "assembly-assign", Formats: []string{"pdbx", "txt"}},
		"assembly-model":              {Acronym: "assembly-model", Formats: []string{"pdbx", "pdb"}},
		"assembly-suggested":          {Acronym: "assembly-suggested", Formats: []string{"json"}},
		"deposit-volume-params":       {Acronym: "deposit-volume-params", Formats: []string{"pic"}},
		"polymer-linkage-distances":   {Acronym: "poly-link-dist", Formats: []string{"pdbx", "json"}},
		"polymer-linkage-report":      {Acronym: "poly-link-report", Formats: []string{"html"}},
		"validation-report":           {Acronym: "valrep", Formats: []string{"pdf"}},
		"validation-report-full":      {Acronym: "valrepfull", Formats: []string{"pdf"}},
		"validation-data":             {Acronym: "valdata", Formats: []string{"pdbx", "xml"}},
		"correspondence-to-depositor": {Acronym: "correspondence-to-depositor", Formats: []string{"txt"}},
		"status-history":              {Acronym: "status-history", Formats: []string{"pdbx"}},
	}
	return base
}

// DefaultFormatExtensions returns the standard format to file extension
// dictionary.
func DefaultFormatExtensions() map[string]string {
	return map[string]string{
		"pdbx":     "cif",
		"pdb":      "pdb",
		"pdbml":    "xml",
		"xml":      "xml",
		"nmr-star": "str",
		"nef":      "nef",
		"map":      "map",
		"ccp4":     "ccp4",
		"mtz":      "mtz",
		"mr":       "mr",
		"pic":      "pkl",
		"json":     "json",
		"txt":      "txt",
		"html":     "html",
		"pdf":      "pdf",
		"csv":      "csv",
		"tar":      "tar",
		"gz":       "gz",
		"png":      "png",
		"svg":      "svg",
		"jpg":      "jpg",
		"tif":      "tif",
		"fasta":    "fasta",
		"any":      "dat",
	}
}
