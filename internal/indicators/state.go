package indicators

// State explains whether a view holds data and, if not, why
type State string

const (
	StateReady                 State = "ready"
	StateNoRows                State = "no_rows"
	StateSelectPeriod          State = "select_period"
	StateNoEntitySelected      State = "no_entity_selected"
	StateEntityWithoutData     State = "entity_without_data"
	StateDataUnavailable       State = "data_unavailable"
	StateRankingUnavailable    State = "ranking_unavailable"
	StateComponentsUnavailable State = "components_unavailable"
)

// Outcome is embedded in every view result
type Outcome struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// Ready reports whether the view carries data
func (o Outcome) Ready() bool {
	return o.State == StateReady
}

func ready() Outcome {
	return Outcome{State: StateReady}
}

func unavailable(state State, message string) Outcome {
	return Outcome{State: state, Message: message}
}
