package odds

// ImpliedProbability converte os totais agregados de stake em probabilidade
// implícita (0..100). Sem apostas, o mercado não tem informação: 50.
//
// Sempre recalcula a partir dos totais correntes; nunca mantenha um
// percentual incremental entre chamadas, o erro de arredondamento acumula.
func ImpliedProbability(yesStake, noStake float64) float64 {
	total := yesStake + noStake
	if total == 0 {
		return 50.0
	}
	return 100 * yesStake / total
}
