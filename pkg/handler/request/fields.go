package request

// GenefinderTool selects antiSMASH's --genefinding-tool argument.
type GenefinderTool int

const (
	GenefinderProdigal GenefinderTool = iota
	GenefinderGlimmerHMM
	GenefinderNone
)

func (t GenefinderTool) String() string {
	switch t {
	case GenefinderProdigal:
		return "prodigal"
	case GenefinderGlimmerHMM:
		return "glimmerhmm"
	case GenefinderNone:
		return "none"
	default:
		return "prodigal"
	}
}

func ParseGenefinderTool(tool string) GenefinderTool {
	switch tool {
	case "prodigal":
		return GenefinderProdigal
	case "glimmerhmm":
		return GenefinderGlimmerHMM
	case "none":
		return GenefinderNone
	default:
		return GenefinderProdigal // default to prodigal
	}
}
