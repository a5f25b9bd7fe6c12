package fdprop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThetaTreeEctCombinesViaRightHalf(t *testing.T) {
	tr := NewThetaTree(2)
	tr.Insert(0, 5, 3)
	tr.Insert(1, 10, 2)
	require.Equal(t, 10, tr.Ect())
}

func TestThetaTreeEctCombinesViaLeftHalfPlusRightEnergy(t *testing.T) {
	tr := NewThetaTree(2)
	tr.Insert(0, 10, 3)
	tr.Insert(1, 5, 2)
	require.Equal(t, 12, tr.Ect())
}

func TestThetaTreeRemoveRestoresAbsence(t *testing.T) {
	tr := NewThetaTree(2)
	tr.Insert(0, 10, 3)
	tr.Insert(1, 5, 2)
	tr.Remove(1)
	require.Equal(t, 10, tr.Ect())
}

func TestThetaTreeEmptyIsNegInf(t *testing.T) {
	tr := NewThetaTree(3)
	require.Equal(t, negInf, tr.Ect())
}

func TestLambdaThetaTreeEctIgnoresLambda(t *testing.T) {
	tr := NewLambdaThetaTree(2)
	tr.InsertInTheta(0, 5, 3)
	tr.InsertInLambda(1, 20, 10)
	require.Equal(t, 5, tr.Ect())
}

func TestLambdaThetaTreeEctOptPicksBestLambdaLeaf(t *testing.T) {
	tr := NewLambdaThetaTree(2)
	tr.InsertInTheta(0, 5, 3)
	tr.InsertInLambda(1, 20, 10)
	require.Equal(t, 20, tr.EctOpt())
	require.Equal(t, 1, tr.ResponsibleOpt())
}

func TestLambdaThetaTreeNoLambdaMeansNoResponsible(t *testing.T) {
	tr := NewLambdaThetaTree(2)
	tr.InsertInTheta(0, 5, 3)
	tr.InsertInTheta(1, 10, 2)
	require.Equal(t, 10, tr.EctOpt())
	require.Equal(t, -1, tr.ResponsibleOpt())
}

func TestLambdaThetaTreeRemoveLambdaLeaf(t *testing.T) {
	tr := NewLambdaThetaTree(2)
	tr.InsertInTheta(0, 5, 3)
	tr.InsertInLambda(1, 20, 10)
	tr.Remove(1)
	require.Equal(t, 5, tr.Ect())
	require.Equal(t, 5, tr.EctOpt())
	require.Equal(t, -1, tr.ResponsibleOpt())
}
