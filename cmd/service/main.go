package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kindfund/donations-backend/api"
	"github.com/kindfund/donations-backend/donations"
	"github.com/kindfund/donations-backend/notifications/mailtemplates"
	"github.com/kindfund/donations-backend/notifications/smtp"
	"github.com/kindfund/donations-backend/stripe"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.vocdoni.io/dvote/log"
)

func main() {
	log.Init("debug", "stdout", nil)
	// define flags
	flag.StringP("host", "h", "0.0.0.0", "listen address")
	flag.IntP("port", "p", 4242, "listen port")
	flag.String("adminEmail", "donations@kindfund.org", "recipient of the admin donation notices")
	flag.String("emailFromAddress", "receipts@kindfund.org", "from address for the donation emails")
	flag.String("emailFromName", "Kindfund Donations", "from name for the donation emails")
	flag.String("smtpServer", "", "SMTP server address")
	flag.Int("smtpPort", 587, "SMTP server port")
	flag.String("smtpUsername", "", "SMTP username")
	flag.String("smtpPassword", "", "SMTP password")
	// parse flags
	flag.Parse()
	// initialize Viper
	viper.SetEnvPrefix("DONATIONS")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		panic(err)
	}
	viper.AutomaticEnv()
	// read the configuration
	host := viper.GetString("host")
	port := viper.GetInt("port")
	adminEmail := viper.GetString("adminEmail")

	// load the email templates from the embedded assets
	if err := mailtemplates.Load(); err != nil {
		log.Fatalf("could not load email templates: %v", err)
	}
	// create the SMTP mail service
	mailService := new(smtp.Email)
	if err := mailService.New(&smtp.Config{
		FromName:     viper.GetString("emailFromName"),
		FromAddress:  viper.GetString("emailFromAddress"),
		SMTPUsername: viper.GetString("smtpUsername"),
		SMTPPassword: viper.GetString("smtpPassword"),
		SMTPServer:   viper.GetString("smtpServer"),
		SMTPPort:     viper.GetInt("smtpPort"),
	}); err != nil {
		log.Fatalf("could not create the mail service: %v", err)
	}
	// create the stripe service
	stripeConfig, err := stripe.NewConfig()
	if err != nil {
		log.Fatalf("could not create the stripe configuration: %v", err)
	}
	stripeService, err := stripe.NewService(stripeConfig, stripe.NewClient(stripeConfig), stripe.NewPriceCatalog(stripeConfig))
	if err != nil {
		log.Fatalf("could not create the stripe service: %v", err)
	}
	// create and start the donation receipt queue
	mailer := donations.NewMailer(mailService, stripeService, adminEmail)
	queue := donations.NewQueue(context.Background(), 0, mailer)
	go queue.Start()
	// create the local API server
	api.New(&api.Config{
		Host:   host,
		Port:   port,
		Stripe: stripeService,
		Queue:  queue,
	}).Start()
	// wait forever, as the server is running in a goroutine
	log.Infow("server started", "host", host, "port", port)
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}
