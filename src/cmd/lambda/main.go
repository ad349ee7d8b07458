package main

import (
	"context"
	"log"
	"os"
	"starwarsproxy/src/bootstrap"
	"starwarsproxy/src/server"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"go.uber.org/fx"
)

// Mesmas rotas do servidor HTTP atrás do API Gateway. O grafo é montado uma
// vez por container e reaproveitado entre invocações.
func main() {
	log.SetOutput(os.Stdout)

	bootstrap.LoadEnv()

	var srv *server.Server
	app := fx.New(
		bootstrap.Module,
		fx.Populate(&srv),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start lambda application: %v", err)
	}

	adapter := httpadapter.New(srv.Handler())

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
